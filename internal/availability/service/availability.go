package service

import (
	"context"

	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/timeslot"
)

// RoomLister is the slice of the room repository availability needs.
type RoomLister interface {
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
}

// ConflictFinder reports the bookings that overlap an interval in one room,
// ascending by start time.
type ConflictFinder interface {
	GetConflicts(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error)
}

// ConflictEntry is one overlapping booking blocking a room, with enough
// context to show who holds the slot.
type ConflictEntry struct {
	Room    model.RoomSummary   `json:"room"`
	Booking model.BookingDetail `json:"booking"`
}

// Result partitions the room directory for a requested slot. Every room
// lands on exactly one side: Available when it has no overlapping booking,
// otherwise one Unavailable entry per conflict found.
type Result struct {
	Date        string              `json:"date"`
	StartTime   string              `json:"start_time"`
	EndTime     string              `json:"end_time"`
	Available   []model.RoomSummary `json:"available"`
	Unavailable []ConflictEntry     `json:"unavailable"`
}

type AvailabilityService interface {
	ComputeAvailability(ctx context.Context, interval timeslot.Interval) (*Result, error)
}

type availabilityService struct {
	rooms     RoomLister
	conflicts ConflictFinder
	cfg       *config.Config
}

func NewAvailabilityService(rooms RoomLister, conflicts ConflictFinder, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		rooms:     rooms,
		conflicts: conflicts,
		cfg:       cfg,
	}
}

// ComputeAvailability walks the directory in listing order so results stay
// stable between requests. A room with multiple overlapping bookings (which
// would itself be a conflict-invariant violation in the store) still reports
// every one of them rather than hiding the state.
func (s *availabilityService) ComputeAvailability(ctx context.Context, interval timeslot.Interval) (*Result, error) {
	rooms, err := s.rooms.FindAll(ctx, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms for availability", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}

	result := &Result{
		Date:        interval.Date,
		StartTime:   interval.Start,
		EndTime:     interval.End,
		Available:   []model.RoomSummary{},
		Unavailable: []ConflictEntry{},
	}

	for _, room := range rooms {
		conflicts, err := s.conflicts.GetConflicts(ctx, room.ID, interval)
		if err != nil {
			return nil, err
		}

		if len(conflicts) == 0 {
			result.Available = append(result.Available, room.Summary())
			continue
		}

		for _, conflict := range conflicts {
			result.Unavailable = append(result.Unavailable, ConflictEntry{
				Room:    room.Summary(),
				Booking: *conflict,
			})
		}
	}

	s.cfg.Log.Debug("Availability computed",
		"date", interval.Date,
		"start_time", interval.Start,
		"end_time", interval.End,
		"available", len(result.Available),
		"unavailable", len(result.Unavailable),
	)

	return result, nil
}
