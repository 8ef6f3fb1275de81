package validator

import (
	"testing"

	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/timeslot"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func validBooking() *model.Booking {
	return &model.Booking{
		RoomID:      "64f1a2b3c4d5e6f7a8b9c0d1",
		OwnerID:     "64f1a2b3c4d5e6f7a8b9c0d2",
		BookingDate: "2026-09-01",
		StartTime:   "09:00",
		EndTime:     "10:00",
	}
}

func TestValidate(t *testing.T) {
	v := NewBookingValidator(testLogger())
	room := &model.Room{
		ID:        "64f1a2b3c4d5e6f7a8b9c0d1",
		Name:      "Board Room",
		Capacity:  8,
		OpenTime:  "08:00",
		CloseTime: "18:00",
	}
	now := timeslot.Clock{Date: "2026-08-28", Time: "09:00"}

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
	}{
		{"valid booking", func(b *model.Booking) {}, false},
		{"exactly the room hours", func(b *model.Booking) {
			b.StartTime, b.EndTime = "08:00", "18:00"
		}, false},
		{"missing room id", func(b *model.Booking) { b.RoomID = "" }, true},
		{"malformed room id", func(b *model.Booking) { b.RoomID = "not-an-object-id" }, true},
		{"missing owner id", func(b *model.Booking) { b.OwnerID = "" }, true},
		{"start equals end", func(b *model.Booking) { b.EndTime = "09:00" }, true},
		{"start after end", func(b *model.Booking) {
			b.StartTime, b.EndTime = "11:00", "10:00"
		}, true},
		{"bad time format", func(b *model.Booking) { b.StartTime = "9:00" }, true},
		{"bad date format", func(b *model.Booking) { b.BookingDate = "01/09/2026" }, true},
		{"before opening", func(b *model.Booking) {
			b.StartTime, b.EndTime = "07:00", "09:00"
		}, true},
		{"after closing", func(b *model.Booking) {
			b.StartTime, b.EndTime = "17:00", "19:00"
		}, true},
		{"on a past date", func(b *model.Booking) { b.BookingDate = "2026-08-27" }, true},
		{"already started today", func(b *model.Booking) {
			b.BookingDate = "2026-08-28"
			b.StartTime, b.EndTime = "08:30", "10:00"
		}, true},
		{"starting exactly now", func(b *model.Booking) {
			b.BookingDate = "2026-08-28"
			b.StartTime, b.EndTime = "09:00", "10:00"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)
			err := v.Validate(booking, room, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateShorten(t *testing.T) {
	v := NewBookingValidator(testLogger())
	existing := validBooking()
	existing.EndTime = "11:00"

	tests := []struct {
		name    string
		newEnd  string
		wantErr bool
	}{
		{"earlier end", "10:00", false},
		{"one minute after start", "09:01", false},
		{"unchanged end", "11:00", false},
		{"later end", "12:00", true},
		{"equal to start", "09:00", true},
		{"before start", "08:00", true},
		{"not a time", "noonish", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateShorten(existing, tt.newEnd)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShorten(%q) error = %v, wantErr %v", tt.newEnd, err, tt.wantErr)
			}
		})
	}
}
