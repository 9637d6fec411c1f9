package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

func (s *Store) Create(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = shared.NewID("hist_")
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// Record stores a completed analysis.
func (s *Store) Record(ctx context.Context, result pipeline.Result) error {
	if result.Response == nil || !result.Response.Success {
		return fmt.Errorf("only successful analyses are recorded: %w", shared.ErrInvalidInput)
	}
	return s.Create(ctx, FromResult(result))
}

func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent returns up to limit records, newest first. An empty persona matches all.
func (s *Store) Recent(ctx context.Context, persona string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if persona != "" {
		query = query.Where("persona = ?", persona)
	}

	var records []*Record
	err := query.Find(&records).Error
	return records, err
}

// UsageSince totals analyses and tokens per persona from since onwards.
func (s *Store) UsageSince(ctx context.Context, since time.Time) ([]Usage, error) {
	var usage []Usage
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Select("persona, COUNT(*) AS analyses, COALESCE(SUM(token_usage), 0) AS token_usage").
		Where("created_at >= ?", since).
		Group("persona").
		Order("persona").
		Scan(&usage).Error
	return usage, err
}

func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Record{})
	return result.RowsAffected, result.Error
}
