// Package store keeps a history of shown rune recommendations.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/lol-rune-draft/internal/board"
)

const DefaultLimit = 20
const MaxLimit = 200

type DraftRecord struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	LobbyCode      string    `gorm:"index;size:16" json:"lobby_code"`
	Picks          []int     `gorm:"serializer:json" json:"picks"`
	Player         int       `json:"player"`
	ChampionID     string    `gorm:"size:64" json:"champion_id"`
	Role           string    `gorm:"size:16" json:"role"`
	PrimaryStyle   int       `json:"primary_style"`
	SecondaryStyle int       `json:"secondary_style"`
	Keystone       int       `json:"keystone"`
	Spells         []int     `gorm:"serializer:json" json:"spells"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to postgres at dsn.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return New(db)
}

// New migrates the schema on db.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&DraftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Record(ctx context.Context, code string, sum board.Summary) error {
	rec := DraftRecord{
		ID:             uuid.NewString(),
		LobbyCode:      code,
		Picks:          sum.Picks[:],
		Player:         sum.Player,
		ChampionID:     sum.ChampionID,
		Role:           string(sum.Role),
		PrimaryStyle:   sum.PrimaryStyle,
		SecondaryStyle: sum.SecondaryStyle,
		Keystone:       sum.Keystone,
		Spells:         sum.Spells,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("record draft: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]DraftRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	var out []DraftRecord
	err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
