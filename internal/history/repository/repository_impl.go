package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) historydomain.Repository {
	return &repository{db: db}
}

func (r *repository) UpsertPattern(ctx context.Context, pattern *historydomain.SeasonalPattern) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "month"}},
			UpdateAll: true,
		}).
		Create(pattern).Error
}

func (r *repository) InsertSummary(ctx context.Context, summary *historydomain.DailySummary) error {
	return r.db.WithContext(ctx).Create(summary).Error
}

func (r *repository) InsertRecommendation(ctx context.Context, rec *historydomain.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) ListSummaries(ctx context.Context, hotelID snowflake.ID, since time.Time) ([]historydomain.DailySummary, error) {
	var rows []historydomain.DailySummary
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND date >= ?", hotelID, since).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListRecommendations(ctx context.Context, hotelID snowflake.ID, since time.Time) ([]historydomain.Recommendation, error) {
	var rows []historydomain.Recommendation
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND created_at >= ?", hotelID, since).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
