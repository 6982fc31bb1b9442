package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/recetas/backend/config"
	"github.com/pageza/recetas/backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (default: MIGRATIONS_DIR or ./migrations)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	migrationsDir := cfg.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = database.PostgresDSN(cfg)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(database.LedgerDDL); err != nil {
		log.Fatalf("failed to create migrations table: %v", err)
	}

	migrations, err := database.MigrationFiles(migrationsDir)
	if err != nil {
		log.Fatal(err)
	}

	if *rollback {
		if err := rollbackLast(db, migrations); err != nil {
			log.Fatal(err)
		}
		return
	}

	for _, m := range migrations {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version).Scan(&applied)
		if err != nil {
			log.Fatalf("failed to check migration status: %v", err)
		}
		if applied {
			fmt.Printf("Migration already applied: %s\n", m.Name)
			continue
		}

		fmt.Printf("Applying migration: %s\n", m.Path)
		if err := apply(db, m.Path, func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name)
			return err
		}); err != nil {
			log.Fatalf("failed to apply migration %s: %v", m.Name, err)
		}
		fmt.Printf("Successfully applied migration: %s\n", m.Name)
	}

	fmt.Println("All migrations applied successfully.")
}

func rollbackLast(db *sql.DB, migrations []database.Migration) error {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY applied_at DESC, version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	var downPath string
	for _, m := range migrations {
		if m.Version == version {
			downPath = m.DownPath
		}
	}
	if downPath == "" {
		return fmt.Errorf("rollback file not found for migration %s", name)
	}

	err = apply(db, downPath, func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", name, err)
	}

	fmt.Printf("Successfully rolled back migration: %s\n", name)
	return nil
}

// apply runs the SQL file at path and then record inside one transaction
func apply(db *sql.DB, path string, record func(*sql.Tx) error) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
