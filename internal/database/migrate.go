package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/recetas/backend/internal/model"
)

// LedgerDDL creates the table recording applied migrations
const LedgerDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(64) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Migration is one forward SQL file with its optional rollback
type Migration struct {
	Version  string
	Name     string
	Path     string
	DownPath string
}

// MigrationFiles lists the forward migrations in dir, oldest first. Files are
// named VERSION_name.sql; VERSION_name.down.sql holds the rollback.
func MigrationFiles(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, ".down.sql") {
			continue
		}
		m := Migration{
			Version: strings.SplitN(name, "_", 2)[0],
			Name:    name,
			Path:    filepath.Join(dir, name),
		}
		down := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+".down.sql")
		if _, err := os.Stat(down); err == nil {
			m.DownPath = down
		}
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

// RunMigrations brings the schema up to date. SQLite uses GORM auto-migration;
// PostgreSQL applies the SQL files in migrationsDir.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("[Database] using GORM auto-migration for SQLite")
		return db.AutoMigrate(&model.TranslationEntry{})
	}

	migrations, err := MigrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	if err := db.Exec(LedgerDDL).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Table("schema_migrations").Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("[Database] skipping migration %s (already applied)", m.Name)
			continue
		}

		content, err := os.ReadFile(m.Path)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", m.Name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("[Database] applied migration %s", m.Name)
	}

	return nil
}
