// Package domain holds the persisted daily pricing-performance records and
// the recommendations the daily job derives from them.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DailySummary is one hotel-day of realized performance, written by the
// daily job and kept for reporting.
type DailySummary struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	HotelID       snowflake.ID `gorm:"not null;index"`
	Date          time.Time    `gorm:"not null;index"`
	OccupancyRate float64      `gorm:"not null"`
	ADR           float64      `gorm:"not null"`
	RevPAR        float64      `gorm:"not null"`
	CreatedAt     time.Time    `gorm:"not null"`
}

func (DailySummary) TableName() string { return "pricing_daily_summaries" }

type RecommendationKind string

const (
	RecommendIncrease RecommendationKind = "increase_price"
	RecommendDiscount RecommendationKind = "discount"
	RecommendHold     RecommendationKind = "hold"
)

type Recommendation struct {
	ID            snowflake.ID       `gorm:"primaryKey"`
	HotelID       snowflake.ID       `gorm:"not null;index"`
	Kind          RecommendationKind `gorm:"type:text;not null"`
	Reason        string             `gorm:"type:text;not null"`
	OccupancyRate float64            `gorm:"not null"`
	CreatedAt     time.Time          `gorm:"not null"`
}

func (Recommendation) TableName() string { return "pricing_recommendations" }

// SeasonalPattern is the weekly job's persisted view of a hotel's seasonal
// index and trend, one row per (hotel, month).
type SeasonalPattern struct {
	HotelID        snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	Month          int          `gorm:"primaryKey;autoIncrement:false"`
	Index          float64      `gorm:"not null"`
	Momentum       float64      `gorm:"not null"`
	TrendDirection string       `gorm:"type:text;not null"`
	UpdatedAt      time.Time    `gorm:"not null"`
}

func (SeasonalPattern) TableName() string { return "seasonal_patterns" }

type Repository interface {
	UpsertPattern(ctx context.Context, pattern *SeasonalPattern) error
	InsertSummary(ctx context.Context, summary *DailySummary) error
	InsertRecommendation(ctx context.Context, rec *Recommendation) error
	ListSummaries(ctx context.Context, hotelID snowflake.ID, since time.Time) ([]DailySummary, error)
	ListRecommendations(ctx context.Context, hotelID snowflake.ID, since time.Time) ([]Recommendation, error)
}
