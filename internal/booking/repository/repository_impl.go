package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) bookingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListStays(ctx context.Context, hotelID snowflake.ID, start, end time.Time) ([]bookingdomain.Booking, error) {
	var rows []bookingdomain.Booking
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status IN ? AND check_in < ? AND check_out > ?",
			hotelID, bookingdomain.RevenueStatuses, end, start).
		Order("check_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountCreatedBetween(ctx context.Context, hotelID snowflake.ID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("hotel_id = ? AND status IN ? AND created_at >= ? AND created_at < ?",
			hotelID, bookingdomain.RevenueStatuses, start, end).
		Count(&count).Error
	return count, err
}
