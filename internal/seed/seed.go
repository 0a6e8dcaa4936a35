// Package seed loads a demo hotel with a year of plausible booking history,
// so a fresh install has something to price.
package seed

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"gorm.io/gorm"
)

const demoHotelName = "Grand Meridian"

// EnsureDemoHotel is idempotent: it seeds nothing when the demo hotel
// already exists.
func EnsureDemoHotel(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&hoteldomain.Hotel{}).Where("name = ?", demoHotelName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		hotel := &hoteldomain.Hotel{
			ID:           node.Generate(),
			Name:         demoHotelName,
			City:         "Lisbon",
			YieldEnabled: true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(hotel).Error; err != nil {
			return err
		}

		maxStd, maxDlx := 220.0, 420.0
		rooms := []hoteldomain.RoomType{
			{ID: node.Generate(), HotelID: hotel.ID, Name: "Standard", Rooms: 40, BasePrice: 100, MaxPrice: &maxStd, Active: true},
			{ID: node.Generate(), HotelID: hotel.ID, Name: "Deluxe", Rooms: 15, BasePrice: 180, MaxPrice: &maxDlx, Active: true},
		}
		if err := tx.Create(&rooms).Error; err != nil {
			return err
		}

		settings := hoteldomain.DefaultSettings(hotel.ID)
		settings.Seasons = []hoteldomain.Season{
			{Name: "summer", Start: time.Date(now.Year(), 6, 15, 0, 0, 0, 0, time.UTC), End: time.Date(now.Year(), 9, 15, 0, 0, 0, 0, time.UTC), Recurring: true, Multiplier: 1.2},
		}
		if err := tx.Create(settings).Error; err != nil {
			return err
		}

		if err := tx.Create(demoBookings(node, hotel.ID, rooms, now)).Error; err != nil {
			return err
		}

		rule := &ruledomain.Rule{
			ID:              node.Generate(),
			Name:            "early bird",
			Kind:            ruledomain.KindLeadTime,
			HotelID:         &hotel.ID,
			Priority:        10,
			Active:          true,
			ValidFrom:       now.AddDate(0, 0, -1),
			ValidUntil:      now.AddDate(1, 0, 0),
			Adjustment:      ruledomain.AdjustPercentage,
			AdjustmentValue: -5,
			Config: ruledomain.Config{
				LeadTime: []ruledomain.LeadTimeBand{{FromDays: 60, Multiplier: 0.95}},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(rule).Error
	})
}

// demoBookings generates a year of history with a summer bulge and busier
// weekends, enough signal for the analyzer to find seasonality and trend.
func demoBookings(node *snowflake.Node, hotelID snowflake.ID, rooms []hoteldomain.RoomType, now time.Time) []bookingdomain.Booking {
	rng := rand.New(rand.NewSource(42))
	var bookings []bookingdomain.Booking

	for day := 365; day > 0; day-- {
		checkIn := now.AddDate(0, 0, -day).Truncate(24 * time.Hour)
		demand := 3
		if m := checkIn.Month(); m >= time.June && m <= time.September {
			demand += 3
		}
		if wd := checkIn.Weekday(); wd == time.Friday || wd == time.Saturday {
			demand += 2
		}

		for i := 0; i < demand; i++ {
			rt := rooms[rng.Intn(len(rooms))]
			nights := 1 + rng.Intn(4)
			bookings = append(bookings, bookingdomain.Booking{
				ID:          node.Generate(),
				HotelID:     hotelID,
				RoomTypeID:  rt.ID,
				Rooms:       1,
				CheckIn:     checkIn,
				CheckOut:    checkIn.AddDate(0, 0, nights),
				TotalAmount: rt.BasePrice * float64(nights),
				Status:      bookingdomain.BookingStatusCompleted,
				CreatedAt:   checkIn.AddDate(0, 0, -rng.Intn(45)),
			})
		}
	}
	return bookings
}
