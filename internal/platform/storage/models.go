package storage

import (
	"time"

	"gorm.io/datatypes"
)

// UserSession is the persisted form of a bot session.
type UserSession struct {
	UserID              string   `gorm:"primaryKey;type:varchar(64)"`
	Language            string   `gorm:"type:varchar(16);not null;default:'ru'"`
	IdentificationToken string   `gorm:"type:varchar(255)"`
	LastImage           string   `gorm:"type:text"`
	LastPlant           string   `gorm:"type:varchar(255)"`
	Longitude           *float64
	Latitude            *float64
	CreatedAt           time.Time
	UpdatedAt           time.Time `gorm:"index"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// DomainEvent is one persisted bot event.
type DomainEvent struct {
	ID        uint           `gorm:"primaryKey"`
	EventID   string         `gorm:"type:varchar(64);uniqueIndex"`
	EventType string         `gorm:"index;not null"`
	UserID    string         `gorm:"index"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"index"`
}

func (DomainEvent) TableName() string {
	return "domain_events"
}
