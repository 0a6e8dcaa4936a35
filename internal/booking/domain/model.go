// Package domain holds the stay-record models the pricing engine reads.
// Bookings are owned by the reservation workflow; the engine never writes them.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// RevenueStatuses are the confirmed-family statuses that count toward
// occupancy and revenue analysis.
var RevenueStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
	BookingStatusCompleted,
}

type Booking struct {
	ID          snowflake.ID  `gorm:"primaryKey"`
	HotelID     snowflake.ID  `gorm:"not null;index"`
	RoomTypeID  snowflake.ID  `gorm:"not null;index"`
	Rooms       int           `gorm:"not null;default:1"`
	CheckIn     time.Time     `gorm:"not null;index"`
	CheckOut    time.Time     `gorm:"not null"`
	TotalAmount float64       `gorm:"not null"`
	Status      BookingStatus `gorm:"type:text;not null;index"`
	CreatedAt   time.Time     `gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

// Nights returns the stay length in nights; a same-day record counts as zero.
func (b Booking) Nights() int {
	n := int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// Covers reports whether the stay occupies the given date, check-out exclusive.
func (b Booking) Covers(date time.Time) bool {
	return !date.Before(b.CheckIn) && date.Before(b.CheckOut)
}

type Repository interface {
	// ListStays returns revenue-status bookings overlapping [start, end).
	ListStays(ctx context.Context, hotelID snowflake.ID, start, end time.Time) ([]Booking, error)
	// CountCreatedBetween counts bookings created in [start, end) regardless of
	// stay dates; used for velocity and spike detection.
	CountCreatedBetween(ctx context.Context, hotelID snowflake.ID, start, end time.Time) (int64, error)
}
