package model

import "time"

// Geoposition is the last location shared by the user.
type Geoposition struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Session captures the per-user state persisted between updates.
type Session struct {
	UserID              string       `json:"user_id"`
	Language            string       `json:"language"`
	IdentificationToken string       `json:"identification_token,omitempty"`
	LastImage           string       `json:"last_image,omitempty"` // base64 encoded photo
	LastPlant           string       `json:"last_plant,omitempty"`
	Geoposition         *Geoposition `json:"geoposition,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Logger provides the minimal logging contract required by the session domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
