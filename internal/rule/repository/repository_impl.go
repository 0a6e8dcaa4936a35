package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ruledomain.Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*ruledomain.Rule, error) {
	var rule ruledomain.Rule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListForHotel(ctx context.Context, hotelID snowflake.ID) ([]ruledomain.Rule, error) {
	var rules []ruledomain.Rule
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? OR hotel_id IS NULL", hotelID).
		Order("priority DESC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) List(ctx context.Context) ([]ruledomain.Rule, error) {
	var rules []ruledomain.Rule
	err := r.db.WithContext(ctx).Order("priority DESC, id ASC").Find(&rules).Error
	return rules, err
}

func (r *repository) Insert(ctx context.Context, rule *ruledomain.Rule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) Update(ctx context.Context, rule *ruledomain.Rule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) UpdatePerformance(ctx context.Context, rule *ruledomain.Rule) error {
	return r.db.WithContext(ctx).
		Model(&ruledomain.Rule{}).
		Where("id = ?", rule.ID).
		Updates(map[string]any{
			"applications":    rule.Applications,
			"revenue_impact":  rule.RevenueImpact,
			"success_rate":    rule.SuccessRate,
			"last_applied_at": rule.LastAppliedAt,
		}).Error
}

func (r *repository) ListDegraded(ctx context.Context, since time.Time) ([]ruledomain.Rule, error) {
	var rules []ruledomain.Rule
	err := r.db.WithContext(ctx).
		Where("active = ? AND revenue_impact < 0 AND last_applied_at >= ?", true, since).
		Order("revenue_impact ASC").
		Find(&rules).Error
	return rules, err
}
