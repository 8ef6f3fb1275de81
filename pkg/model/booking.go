package model

import (
	"time"

	"roombook/pkg/timeslot"
)

type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID      string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	BookingDate string    `json:"booking_date" bson:"booking_date" validate:"required"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Interval returns the booking's slot as a value; the fields are assumed
// validated on the way in.
func (b *Booking) Interval() timeslot.Interval {
	return timeslot.Interval{Date: b.BookingDate, Start: b.StartTime, End: b.EndTime}
}

// BookingDetail is a booking joined with its room and owner for display:
// conflict listings and booking reports carry who booked which room.
// Orphan references (deleted room or employee) keep the placeholder the
// lookup supplies rather than failing the whole listing.
type BookingDetail struct {
	ID            string `json:"id" bson:"_id"`
	RoomID        string `json:"room_id" bson:"room_id"`
	RoomName      string `json:"room_name" bson:"room_name"`
	OwnerID       string `json:"owner_id" bson:"owner_id"`
	BookedBy      string `json:"booked_by" bson:"booked_by"`
	BookedByEmail string `json:"booked_by_email,omitempty" bson:"booked_by_email,omitempty"`
	BookingDate   string `json:"booking_date" bson:"booking_date"`
	StartTime     string `json:"start_time" bson:"start_time"`
	EndTime       string `json:"end_time" bson:"end_time"`
}

func (b *BookingDetail) Interval() timeslot.Interval {
	return timeslot.Interval{Date: b.BookingDate, Start: b.StartTime, End: b.EndTime}
}

// BookingShorten is the only permitted booking mutation: pulling the end
// time earlier. Extending or moving a booking would need a fresh conflict
// pass, so it is simply not offered.
type BookingShorten struct {
	EndTime string `json:"end_time" validate:"required"`
}

// MonthlyRoomCount is one row of the yearly usage report.
type MonthlyRoomCount struct {
	Month    int    `json:"month" bson:"month"`
	RoomName string `json:"room_name" bson:"room_name"`
	Count    int64  `json:"count" bson:"count"`
}
