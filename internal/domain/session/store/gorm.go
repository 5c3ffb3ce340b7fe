package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plantid-bot-go/internal/domain/session/model"
	"plantid-bot-go/internal/platform/storage"
)

type gormStore struct {
	db      *gorm.DB
	dialect string
}

// NewGorm builds a session store over the shared gorm handle (sqlite or postgres).
func NewGorm(db *gorm.DB, dialect string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm store requires database handle")
	}
	return &gormStore{db: db, dialect: dialect}, nil
}

func (s *gormStore) Get(ctx context.Context, userID string) (model.Session, bool, error) {
	var row storage.UserSession
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, err
	}
	return fromRow(row), true, nil
}

func (s *gormStore) Save(ctx context.Context, sess model.Session) error {
	if sess.UserID == "" {
		return fmt.Errorf("user id required")
	}
	row := toRow(sess)
	row.UpdatedAt = time.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = row.UpdatedAt
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"language",
			"identification_token",
			"last_image",
			"last_plant",
			"longitude",
			"latitude",
			"updated_at",
		}),
	}).Create(&row).Error
}

func (s *gormStore) Stats(ctx context.Context) (map[string]any, error) {
	var total, located int64
	if err := s.db.WithContext(ctx).Model(&storage.UserSession{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&storage.UserSession{}).
		Where("longitude IS NOT NULL AND latitude IS NOT NULL").
		Count(&located).Error; err != nil {
		return nil, err
	}
	return map[string]any{
		"type":    s.dialect,
		"total":   total,
		"located": located,
	}, nil
}

// Close leaves the shared handle to the storage owner.
func (s *gormStore) Close(context.Context) error {
	return nil
}

func toRow(sess model.Session) storage.UserSession {
	row := storage.UserSession{
		UserID:              sess.UserID,
		Language:            sess.Language,
		IdentificationToken: sess.IdentificationToken,
		LastImage:           sess.LastImage,
		LastPlant:           sess.LastPlant,
		CreatedAt:           sess.CreatedAt,
	}
	if sess.Geoposition != nil {
		lon, lat := sess.Geoposition.Longitude, sess.Geoposition.Latitude
		row.Longitude = &lon
		row.Latitude = &lat
	}
	return row
}

func fromRow(row storage.UserSession) model.Session {
	sess := model.Session{
		UserID:              row.UserID,
		Language:            row.Language,
		IdentificationToken: row.IdentificationToken,
		LastImage:           row.LastImage,
		LastPlant:           row.LastPlant,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
	if row.Longitude != nil && row.Latitude != nil {
		sess.Geoposition = &model.Geoposition{
			Longitude: *row.Longitude,
			Latitude:  *row.Latitude,
		}
	}
	return sess
}
