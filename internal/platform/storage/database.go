package storage

import (
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/storage/migrations"
)

// Options selects the database backend.
type Options struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is used verbatim when set; for sqlite it overrides DataDir/DBFile.
	DSN     string
	DataDir string
	DBFile  string
}

// Open connects to the configured database without running migrations.
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres":
		if opts.DSN == "" {
			return nil, errors.New(errors.KindStorage, "storage.open", "postgres dsn is empty")
		}
		dialector = postgres.Open(opts.DSN)
	case "sqlite", "":
		dsn := opts.DSN
		if dsn == "" {
			dataDir := opts.DataDir
			if dataDir == "" {
				dataDir = "./data"
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, errors.Wrap(errors.KindStorage, "storage.open", "create data directory", err)
			}
			file := opts.DBFile
			if file == "" {
				file = "plantbot.db"
			}
			dsn = filepath.Join(dataDir, file)
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.New(errors.KindStorage, "storage.open", "unsupported driver: "+opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "storage.open", "failed to open database", err)
	}
	if dialector.Name() == "sqlite" {
		// sqlite allows one writer at a time
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(errors.KindStorage, "storage.open", "get sql db", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate applies every registered schema migration.
func Migrate(db *gorm.DB) error {
	return NewMigrator(db, &migrations.Migration001Initial{}).Run()
}

// OpenAndMigrate is Open followed by Migrate.
func OpenAndMigrate(opts Options) (*gorm.DB, error) {
	db, err := Open(opts)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(errors.KindStorage, "storage.close", "get sql db", err)
	}
	return sqlDB.Close()
}
