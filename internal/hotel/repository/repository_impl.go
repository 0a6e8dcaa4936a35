package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) hoteldomain.Repository {
	return &repository{db: db}
}

func (r *repository) GetHotel(ctx context.Context, id snowflake.ID) (*hoteldomain.Hotel, error) {
	var hotel hoteldomain.Hotel
	err := r.db.WithContext(ctx).First(&hotel, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &hotel, nil
}

func (r *repository) ListYieldEnabled(ctx context.Context) ([]hoteldomain.Hotel, error) {
	var hotels []hoteldomain.Hotel
	err := r.db.WithContext(ctx).
		Where("yield_enabled = ?", true).
		Order("id ASC").
		Find(&hotels).Error
	return hotels, err
}

func (r *repository) ListRoomTypes(ctx context.Context, hotelID snowflake.ID) ([]hoteldomain.RoomType, error) {
	var rows []hoteldomain.RoomType
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND active = ?", hotelID, true).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) GetRoomType(ctx context.Context, hotelID, roomTypeID snowflake.ID) (*hoteldomain.RoomType, error) {
	var rt hoteldomain.RoomType
	err := r.db.WithContext(ctx).
		First(&rt, "hotel_id = ? AND id = ?", hotelID, roomTypeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *repository) TotalRooms(ctx context.Context, hotelID snowflake.ID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&hoteldomain.RoomType{}).
		Where("hotel_id = ? AND active = ?", hotelID, true).
		Select("COALESCE(SUM(rooms), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *repository) GetSettings(ctx context.Context, hotelID snowflake.ID) (*hoteldomain.YieldSettings, error) {
	var settings hoteldomain.YieldSettings
	err := r.db.WithContext(ctx).First(&settings, "hotel_id = ?", hotelID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *repository) SaveSettings(ctx context.Context, settings *hoteldomain.YieldSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hotel_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}
