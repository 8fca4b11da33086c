package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- Migration: {{.Name}} ({{.Dialect}})
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

`

const downTemplate = `-- Migration: {{.Name}} ({{.Dialect}}, rollback)
-- Created: {{.Timestamp}}
-- Description: Rollback for {{.Description}}

`

var (
	upTmpl   = template.Must(template.New("up").Parse(upTemplate))
	downTmpl = template.Must(template.New("down").Parse(downTemplate))
)

// MigrationFile is one dialect's up/down pair
type MigrationFile struct {
	Dialect     string
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair into every dialect directory
// under root, all sharing one timestamp version.
func CreateMigration(root, name, description string, now time.Time) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	version := now.UTC().Format("20060102150405")

	files := make([]MigrationFile, 0, len(Dialects))
	for _, dialect := range Dialects {
		dir := filepath.Join(root, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		mf := MigrationFile{
			Dialect:     dialect,
			Version:     version,
			Name:        name,
			Description: description,
			Timestamp:   now.UTC().Format(time.RFC3339),
			UpPath:      filepath.Join(dir, version+"_"+base+".up.sql"),
			DownPath:    filepath.Join(dir, version+"_"+base+".down.sql"),
		}
		if err := writeTemplate(mf.UpPath, upTmpl, &mf); err != nil {
			return nil, err
		}
		if err := writeTemplate(mf.DownPath, downTmpl, &mf); err != nil {
			_ = os.Remove(mf.UpPath)
			return nil, err
		}
		files = append(files, mf)
	}
	return files, nil
}

func writeTemplate(path string, tmpl *template.Template, data *MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

// sanitizeName lower-cases name and joins its words with single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(c)
		case c == ' ', c == '-', c == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the sorted base names of the up files in dir
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok && !entry.IsDir() {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Unpaired reports migrations that exist for some dialects but not all,
// keyed by dialect with the names that dialect lacks.
func Unpaired(root string) (map[string][]string, error) {
	present := make(map[string]map[string]bool, len(Dialects))
	all := make(map[string]bool)
	for _, dialect := range Dialects {
		names, err := ListMigrations(filepath.Join(root, dialect))
		if err != nil {
			return nil, err
		}
		present[dialect] = make(map[string]bool, len(names))
		for _, n := range names {
			present[dialect][n] = true
			all[n] = true
		}
	}

	missing := make(map[string][]string)
	for _, dialect := range Dialects {
		for n := range all {
			if !present[dialect][n] {
				missing[dialect] = append(missing[dialect], n)
			}
		}
		sort.Strings(missing[dialect])
	}
	for dialect, names := range missing {
		if len(names) == 0 {
			delete(missing, dialect)
		}
	}
	return missing, nil
}
