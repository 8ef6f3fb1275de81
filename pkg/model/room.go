package model

import "time"

type Room struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Capacity  int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=500"`
	OpenTime  string    `json:"open_time" bson:"open_time" validate:"required"`
	CloseTime string    `json:"close_time" bson:"close_time" validate:"required"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RoomUpdate struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Capacity  *int   `json:"capacity,omitempty" validate:"omitempty,min=1,max=500"`
	OpenTime  string `json:"open_time,omitempty"`
	CloseTime string `json:"close_time,omitempty"`
}

// RoomSummary is the shape availability results carry for free rooms.
type RoomSummary struct {
	ID       string `json:"room_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (r *Room) Summary() RoomSummary {
	return RoomSummary{ID: r.ID, Name: r.Name, Capacity: r.Capacity}
}
