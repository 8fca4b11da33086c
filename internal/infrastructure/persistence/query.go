package persistence

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// statusCancelled is excluded from every revenue and spend aggregate
const statusCancelled = "Cancelled"

// likeEscaper escapes LIKE wildcards for ESCAPE '!'
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern matches term literally anywhere in a column compared with
// LIKE ? ESCAPE '!'
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ? ESCAPE '!'
func likePattern(term string) string {
	return containsPattern(strings.ToLower(strings.TrimSpace(term)))
}

// paginate applies the filter's page window
func paginate(query *gorm.DB, f shared.Filter) *gorm.DB {
	return query.Offset(f.Offset()).Limit(f.PageSize)
}

// staleWriteError classifies an optimistic update that matched no row
func staleWriteError(query *gorm.DB, id uuid.UUID) error {
	found, err := exists(query.Where("id = ?", id))
	if err != nil {
		return err
	}
	if !found {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// exists reports whether the query matches at least one row
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// dbTime scans timestamps produced by aggregates such as MIN and MAX.
// SQLite hands those back as text rather than time values.
type dbTime struct {
	Time *time.Time
}

var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

// Scan implements sql.Scanner
func (t *dbTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = nil
		return nil
	case time.Time:
		v = v.UTC()
		t.Time = &v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("cannot scan %T into time", value)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range sqliteTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			parsed = parsed.UTC()
			t.Time = &parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse time %q", s)
}
