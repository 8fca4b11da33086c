// Command migrate applies the SQL schema migrations under migrations/.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/phonestore/backend/internal/infrastructure/logger"
	"github.com/phonestore/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Migrations root holding one directory per dialect")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	root, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		files, err := migration.CreateMigration(root, args[1], description, time.Now())
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		for _, f := range files {
			log.Info("Migration created",
				zap.String("dialect", f.Dialect),
				zap.String("up_file", f.UpPath),
				zap.String("down_file", f.DownPath),
			)
		}
		return

	case "list":
		listMigrations(log, root)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, db := openMigrator(log, &cfg.Database, root)
	defer db.Close()
	defer m.Close()

	if err := run(m, command, args[1:]); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func openMigrator(log *zap.Logger, cfg *config.DatabaseConfig, root string) (*migration.Migrator, *sql.DB) {
	dialect, err := migration.DialectFor(cfg.Driver)
	if err != nil {
		log.Fatal("Unsupported database for SQL migrations", zap.Error(err))
	}

	dsn := cfg.DSN()
	if dialect == migration.DialectMySQL {
		dsn += "&multiStatements=true"
	}
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, cfg.Driver, root, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	log.Info("Migrator ready", zap.String("dialect", m.Dialect()), zap.String("path", root))
	return m, db
}

func listMigrations(log *zap.Logger, root string) {
	for _, dialect := range migration.Dialects {
		names, err := migration.ListMigrations(filepath.Join(root, dialect))
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		fmt.Printf("%s (%d)\n", dialect, len(names))
		for _, n := range names {
			fmt.Println("  -", n)
		}
	}

	missing, err := migration.Unpaired(root)
	if err != nil {
		log.Fatal("Failed to compare dialects", zap.Error(err))
	}
	for dialect, names := range missing {
		log.Warn("Dialect is missing migrations", zap.String("dialect", dialect), zap.Strings("migrations", names))
	}
}

func run(m *migration.Migrator, command string, args []string) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	case "goto":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(version))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	case "force":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(version)
	case "drop":
		if len(args) < 1 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return fmt.Errorf("drop removes every table; run 'migrate drop -confirm'")
		}
		return m.Drop()
	}
	printUsage()
	return fmt.Errorf("unknown command %q", command)
}

func printUsage() {
	fmt.Println(`Phone store schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  force <version>       Record a version without running it
  drop -confirm         Drop every table
  create <name> [desc]  Create an up/down pair for every dialect
  list                  List migrations per dialect

Flags:
  -path string          Migrations root (default: ./migrations)
  -log-level string     Log level (default: info)

The database comes from config.toml or PS_DATABASE_* environment variables.`)
}
