package storage

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"plantid-bot-go/internal/platform/errors"
)

// Migration is one forward-only schema step.
type Migration interface {
	Version() string
	Description() string
	Up(db *gorm.DB) error
}

// SchemaVersion records an applied migration.
type SchemaVersion struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaVersion) TableName() string {
	return "schema_versions"
}

// Migrator applies pending migrations in registration order.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB, migrations ...Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

// Run applies every migration whose version is not recorded yet. Each one
// runs in its own transaction together with its version record.
func (m *Migrator) Run() error {
	if err := m.db.AutoMigrate(&SchemaVersion{}); err != nil {
		return errors.Wrap(errors.KindStorage, "migration.create_table", "failed to create schema version table", err)
	}

	var applied []string
	if err := m.db.Model(&SchemaVersion{}).Pluck("version", &applied).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "migration.applied", "failed to read applied versions", err)
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, mig := range m.migrations {
		if done[mig.Version()] {
			continue
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return errors.Wrap(errors.KindStorage, "migration.up", fmt.Sprintf("migration %s failed", mig.Version()), err)
			}
			record := &SchemaVersion{Version: mig.Version(), Name: mig.Description(), AppliedAt: time.Now()}
			if err := tx.Create(record).Error; err != nil {
				return errors.Wrap(errors.KindStorage, "migration.record", "failed to record migration", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		done[mig.Version()] = true
	}
	return nil
}
