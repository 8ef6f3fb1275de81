package validator

import (
	"testing"

	"roombook/pkg/logger"
	"roombook/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func TestValidate(t *testing.T) {
	v := NewRoomValidator(testLogger())

	tests := []struct {
		name    string
		room    model.Room
		wantErr bool
	}{
		{
			"valid room",
			model.Room{Name: "Board Room", Capacity: 8, OpenTime: "08:00", CloseTime: "18:00"},
			false,
		},
		{
			"full day hours",
			model.Room{Name: "War Room", Capacity: 4, OpenTime: "00:00", CloseTime: "23:59"},
			false,
		},
		{
			"name too short",
			model.Room{Name: "A", Capacity: 8, OpenTime: "08:00", CloseTime: "18:00"},
			true,
		},
		{
			"missing capacity",
			model.Room{Name: "Board Room", OpenTime: "08:00", CloseTime: "18:00"},
			true,
		},
		{
			"capacity too large",
			model.Room{Name: "Stadium", Capacity: 501, OpenTime: "08:00", CloseTime: "18:00"},
			true,
		},
		{
			"open equals close",
			model.Room{Name: "Board Room", Capacity: 8, OpenTime: "09:00", CloseTime: "09:00"},
			true,
		},
		{
			"open after close",
			model.Room{Name: "Board Room", Capacity: 8, OpenTime: "18:00", CloseTime: "08:00"},
			true,
		},
		{
			"open time missing leading zero",
			model.Room{Name: "Board Room", Capacity: 8, OpenTime: "8:00", CloseTime: "18:00"},
			true,
		},
		{
			"close time out of range",
			model.Room{Name: "Board Room", Capacity: 8, OpenTime: "08:00", CloseTime: "24:00"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.room)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewRoomValidator(testLogger())
	capacity := func(n int) *int { return &n }

	tests := []struct {
		name    string
		updates model.RoomUpdate
		wantErr bool
	}{
		{"empty update", model.RoomUpdate{}, false},
		{"name only", model.RoomUpdate{Name: "Focus Room"}, false},
		{"capacity only", model.RoomUpdate{Capacity: capacity(12)}, false},
		{"hours only", model.RoomUpdate{OpenTime: "07:00", CloseTime: "19:00"}, false},
		{"name too short", model.RoomUpdate{Name: "X"}, true},
		{"zero capacity", model.RoomUpdate{Capacity: capacity(0)}, true},
		{"bad open time", model.RoomUpdate{OpenTime: "7am"}, true},
		{"bad close time", model.RoomUpdate{CloseTime: "25:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(&tt.updates)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
