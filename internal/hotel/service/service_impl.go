package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/yieldway/internal/clock"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"github.com/railzwaylabs/yieldway/internal/hotel/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  hoteldomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

func NewService(p ServiceParam) hoteldomain.Service {
	return &Service{
		log:   p.Log.Named("hotel.service"),
		clock: p.Clock,
		repo:  repository.NewRepository(p.DB),
	}
}

func (s *Service) Hotel(ctx context.Context, id snowflake.ID) (*hoteldomain.Hotel, error) {
	hotel, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, hoteldomain.ErrHotelNotFound
	}
	return hotel, nil
}

func (s *Service) YieldEnabledHotels(ctx context.Context) ([]hoteldomain.Hotel, error) {
	return s.repo.ListYieldEnabled(ctx)
}

func (s *Service) RoomTypes(ctx context.Context, hotelID snowflake.ID) ([]hoteldomain.RoomType, error) {
	return s.repo.ListRoomTypes(ctx, hotelID)
}

func (s *Service) RoomType(ctx context.Context, hotelID, roomTypeID snowflake.ID) (*hoteldomain.RoomType, error) {
	rt, err := s.repo.GetRoomType(ctx, hotelID, roomTypeID)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, hoteldomain.ErrRoomTypeNotFound
	}
	return rt, nil
}

func (s *Service) TotalRooms(ctx context.Context, hotelID snowflake.ID) (int, error) {
	return s.repo.TotalRooms(ctx, hotelID)
}

func (s *Service) Settings(ctx context.Context, hotelID snowflake.ID) (*hoteldomain.YieldSettings, error) {
	settings, err := s.repo.GetSettings(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return hoteldomain.DefaultSettings(hotelID), nil
	}
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, settings *hoteldomain.YieldSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	settings.UpdatedAt = s.clock.Now(ctx).UTC()
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return err
	}
	s.log.Info("yield settings updated",
		zap.String("hotel_id", settings.HotelID.String()),
		zap.String("strategy", string(settings.Strategy)),
	)
	return nil
}
