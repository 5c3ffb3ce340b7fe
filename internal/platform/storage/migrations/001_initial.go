package migrations

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Migration001Initial creates the session and event tables.
type Migration001Initial struct{}

// schema snapshots, frozen at this version
type userSession001 struct {
	UserID              string `gorm:"primaryKey;type:varchar(64)"`
	Language            string `gorm:"type:varchar(16);not null;default:'ru'"`
	IdentificationToken string `gorm:"type:varchar(255)"`
	LastImage           string `gorm:"type:text"`
	LastPlant           string `gorm:"type:varchar(255)"`
	Longitude           *float64
	Latitude            *float64
	CreatedAt           time.Time
	UpdatedAt           time.Time `gorm:"index"`
}

func (userSession001) TableName() string { return "user_sessions" }

type domainEvent001 struct {
	ID        uint           `gorm:"primaryKey"`
	EventID   string         `gorm:"type:varchar(64);uniqueIndex"`
	EventType string         `gorm:"index;not null"`
	UserID    string         `gorm:"index"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"index"`
}

func (domainEvent001) TableName() string { return "domain_events" }

func (m *Migration001Initial) Version() string {
	return "001_initial"
}

func (m *Migration001Initial) Description() string {
	return "Create user session and domain event tables"
}

func (m *Migration001Initial) Up(db *gorm.DB) error {
	return db.Migrator().AutoMigrate(&userSession001{}, &domainEvent001{})
}
