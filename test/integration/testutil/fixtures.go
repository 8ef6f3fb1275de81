package testutil

import (
	"time"
)

const (
	AdminID    = "64f1a2b3c4d5e6f7a8b9c0a1"
	EmployeeID = "64f1a2b3c4d5e6f7a8b9c0a2"
	OtherID    = "64f1a2b3c4d5e6f7a8b9c0a3"

	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// FutureDate returns a booking date comfortably in the future so the
// admission clock check never interferes with a test run.
func FutureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

type RoomBuilder struct {
	room map[string]any
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		room: map[string]any{
			"name":       "Test Room",
			"capacity":   8,
			"open_time":  "08:00",
			"close_time": "20:00",
		},
	}
}

func (b *RoomBuilder) WithName(name string) *RoomBuilder {
	b.room["name"] = name
	return b
}

func (b *RoomBuilder) WithCapacity(capacity int) *RoomBuilder {
	b.room["capacity"] = capacity
	return b
}

func (b *RoomBuilder) WithHours(open, close string) *RoomBuilder {
	b.room["open_time"] = open
	b.room["close_time"] = close
	return b
}

func (b *RoomBuilder) Build() map[string]any {
	out := make(map[string]any, len(b.room))
	for k, v := range b.room {
		out[k] = v
	}
	return out
}

func ValidEmployee(name, email string) map[string]any {
	return map[string]any{
		"name":       name,
		"email":      email,
		"department": "Engineering",
		"role":       RoleEmployee,
	}
}

func BookingPayload(roomID, date, start, end string) map[string]any {
	return map[string]any{
		"room_id":      roomID,
		"booking_date": date,
		"start_time":   start,
		"end_time":     end,
	}
}
