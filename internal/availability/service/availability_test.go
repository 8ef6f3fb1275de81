package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"roombook/pkg/config"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/timeslot"
)

type mockRoomLister struct {
	findAllFunc func(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
}

func (m *mockRoomLister) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

type mockConflictFinder struct {
	getConflictsFunc func(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error)
}

func (m *mockConflictFinder) GetConflicts(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error) {
	if m.getConflictsFunc != nil {
		return m.getConflictsFunc(ctx, roomID, interval)
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		ReadTimeout: 5 * time.Second,
	}
}

func testRooms() []*model.Room {
	return []*model.Room{
		{ID: "64f1a2b3c4d5e6f7a8b9c001", Name: "Alpha", Capacity: 4},
		{ID: "64f1a2b3c4d5e6f7a8b9c002", Name: "Beta", Capacity: 8},
		{ID: "64f1a2b3c4d5e6f7a8b9c003", Name: "Gamma", Capacity: 12},
	}
}

func testInterval() timeslot.Interval {
	return timeslot.Interval{Date: "2026-09-01", Start: "09:00", End: "10:00"}
}

func TestComputeAvailability_Partition(t *testing.T) {
	rooms := testRooms()
	busyRoom := rooms[1].ID
	booking := &model.BookingDetail{
		ID:          "64f1a2b3c4d5e6f7a8b9c0ff",
		RoomID:      busyRoom,
		RoomName:    "Beta",
		BookedBy:    "Dana",
		BookingDate: "2026-09-01",
		StartTime:   "09:30",
		EndTime:     "10:30",
	}

	lister := &mockRoomLister{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
			return rooms, nil
		},
	}
	finder := &mockConflictFinder{
		getConflictsFunc: func(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error) {
			if roomID == busyRoom {
				return []*model.BookingDetail{booking}, nil
			}
			return nil, nil
		},
	}

	svc := NewAvailabilityService(lister, finder, testConfig())
	result, err := svc.ComputeAvailability(context.Background(), testInterval())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Available) != 2 {
		t.Errorf("expected 2 available rooms, got %d", len(result.Available))
	}
	if len(result.Unavailable) != 1 {
		t.Fatalf("expected 1 unavailable entry, got %d", len(result.Unavailable))
	}
	if result.Unavailable[0].Room.ID != busyRoom {
		t.Errorf("expected busy room %s, got %s", busyRoom, result.Unavailable[0].Room.ID)
	}
	if result.Unavailable[0].Booking.BookedBy != "Dana" {
		t.Errorf("expected conflict to carry the holder, got %q", result.Unavailable[0].Booking.BookedBy)
	}

	// Every room lands on exactly one side.
	seen := make(map[string]bool)
	for _, r := range result.Available {
		seen[r.ID] = true
	}
	for _, e := range result.Unavailable {
		seen[e.Room.ID] = true
	}
	if len(seen) != len(rooms) {
		t.Errorf("expected all %d rooms accounted for, got %d", len(rooms), len(seen))
	}
}

func TestComputeAvailability_PreservesListingOrder(t *testing.T) {
	rooms := testRooms()
	lister := &mockRoomLister{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
			return rooms, nil
		},
	}
	svc := NewAvailabilityService(lister, &mockConflictFinder{}, testConfig())

	result, err := svc.ComputeAvailability(context.Background(), testInterval())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Available) != len(rooms) {
		t.Fatalf("expected all rooms available, got %d", len(result.Available))
	}
	for i, room := range rooms {
		if result.Available[i].ID != room.ID {
			t.Errorf("position %d: expected %s, got %s", i, room.ID, result.Available[i].ID)
		}
	}
}

func TestComputeAvailability_MultipleConflictsPerRoom(t *testing.T) {
	rooms := testRooms()[:1]
	conflicts := []*model.BookingDetail{
		{ID: "64f1a2b3c4d5e6f7a8b9c0f1", RoomID: rooms[0].ID, StartTime: "09:00", EndTime: "09:45"},
		{ID: "64f1a2b3c4d5e6f7a8b9c0f2", RoomID: rooms[0].ID, StartTime: "09:30", EndTime: "10:15"},
	}

	lister := &mockRoomLister{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
			return rooms, nil
		},
	}
	finder := &mockConflictFinder{
		getConflictsFunc: func(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error) {
			return conflicts, nil
		},
	}

	svc := NewAvailabilityService(lister, finder, testConfig())
	result, err := svc.ComputeAvailability(context.Background(), testInterval())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Available) != 0 {
		t.Errorf("expected no available rooms, got %d", len(result.Available))
	}
	if len(result.Unavailable) != 2 {
		t.Errorf("expected one entry per conflict, got %d", len(result.Unavailable))
	}
}

func TestComputeAvailability_EmptyDirectory(t *testing.T) {
	svc := NewAvailabilityService(&mockRoomLister{}, &mockConflictFinder{}, testConfig())

	result, err := svc.ComputeAvailability(context.Background(), testInterval())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available == nil || result.Unavailable == nil {
		t.Error("expected empty slices, not nil")
	}
	if len(result.Available) != 0 || len(result.Unavailable) != 0 {
		t.Errorf("expected empty result, got %d available, %d unavailable", len(result.Available), len(result.Unavailable))
	}
	if result.Date != "2026-09-01" || result.StartTime != "09:00" || result.EndTime != "10:00" {
		t.Errorf("expected requested slot echoed back, got %s %s-%s", result.Date, result.StartTime, result.EndTime)
	}
}

func TestComputeAvailability_ListerError(t *testing.T) {
	lister := &mockRoomLister{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewAvailabilityService(lister, &mockConflictFinder{}, testConfig())

	if _, err := svc.ComputeAvailability(context.Background(), testInterval()); err == nil {
		t.Error("expected error when room listing fails")
	}
}
