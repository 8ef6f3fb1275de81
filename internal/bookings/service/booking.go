package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/timeslot"
)

// RoomDirectory is the slice of the room repository admission needs: the
// room's existence and operating hours.
type RoomDirectory interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

type BookingService interface {
	Create(ctx context.Context, requester model.Requester, booking *model.Booking) error
	GetByID(ctx context.Context, requester model.Requester, id string) (*model.Booking, error)
	Cancel(ctx context.Context, requester model.Requester, id string) error
	ShortenEnd(ctx context.Context, requester model.Requester, id string, newEnd string) error

	GetConflicts(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error)

	GetMyUpcoming(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.BookingDetail, int64, error)
	GetAllUpcoming(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.BookingDetail, int64, error)

	CompletedReport(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.BookingDetail, int64, error)
	MonthlyReport(ctx context.Context, requester model.Requester, year int) ([]*model.MonthlyRoomCount, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	rooms     RoomDirectory
	validator *validator.BookingValidator
	publisher *events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	rooms RoomDirectory,
	validator *validator.BookingValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create admits a booking. The order is fixed: validate everything first,
// then serialize against concurrent admissions for the same room and day
// with an advisory lock, then re-check conflicts and insert inside one
// transaction. Either the booking lands whole or nothing is written.
func (s *bookingService) Create(ctx context.Context, requester model.Requester, booking *model.Booking) error {
	booking.ID = ""
	booking.OwnerID = requester.ID

	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", booking.RoomID)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		return apperrors.Internal("Failed to resolve room", err)
	}

	if err := s.validator.Validate(booking, room, timeslot.ClockAt(s.now())); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"room_id", booking.RoomID,
			"owner_id", booking.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	lockID, err := s.acquireRoomLock(ctx, booking.RoomID, booking.BookingDate)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.rejectOnConflict(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"room_id", booking.RoomID,
			"owner_id", booking.OwnerID,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"owner_id", booking.OwnerID,
		"booking_date", booking.BookingDate,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)

	if s.publisher != nil {
		s.publisher.BookingCreated(ctx, booking)
	}
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, requester model.Requester, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.OwnerID != requester.ID && !requester.IsAdmin() {
		return nil, apperrors.NotFoundOrForbidden("Booking")
	}

	return booking, nil
}

// Cancel deletes the booking when the requester owns it or is admin. A
// non-owner gets the same answer whether the booking exists or not.
func (s *bookingService) Cancel(ctx context.Context, requester model.Requester, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			if requester.IsAdmin() {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.NotFoundOrForbidden("Booking")
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.OwnerID != requester.ID && !requester.IsAdmin() {
		return apperrors.NotFoundOrForbidden("Booking")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to cancel booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking cancelled",
		"id", id,
		"room_id", booking.RoomID,
		"cancelled_by", requester.ID,
	)

	if s.publisher != nil {
		s.publisher.BookingCancelled(ctx, booking)
	}
	return nil
}

// ShortenEnd moves a booking's end time earlier. Shrinking can never create
// a new overlap, so no conflict re-check is needed; any other change would
// need a full admission pass and is not offered.
func (s *bookingService) ShortenEnd(ctx context.Context, requester model.Requester, id string, newEnd string) error {
	if !requester.IsAdmin() {
		return apperrors.Forbidden("Only administrators can update bookings")
	}
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if err := s.validator.ValidateShorten(existing, newEnd); err != nil {
		s.cfg.Log.Warn("Booking shorten validation failed",
			"id", id,
			"new_end", newEnd,
			"error", err,
		)
		return apperrors.Validation("Booking update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.UpdateEndTime(ctx, id, newEnd); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking end time",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking end time shortened",
		"id", id,
		"old_end", existing.EndTime,
		"new_end", newEnd,
	)
	return nil
}

func (s *bookingService) GetConflicts(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	conflicts, err := s.repo.FindConflictDetails(ctx, roomID, interval)
	if err != nil {
		s.cfg.Log.Error("Failed to find conflicting bookings",
			"room_id", roomID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to check booking conflicts", err)
	}
	return conflicts, nil
}

func (s *bookingService) GetMyUpcoming(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.BookingDetail, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	// A meeting that started minutes ago is still the requester's current
	// meeting; move the cutoff back by the grace window so it keeps showing.
	cutoff := timeslot.ClockAt(s.now().Add(-s.cfg.StartGraceWindow))

	var count int64
	var bookings []*model.BookingDetail
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountUpcomingByOwner(ctx, requester.ID, cutoff)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count upcoming bookings", "owner_id", requester.ID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindUpcomingByOwner(ctx, requester.ID, cutoff, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list upcoming bookings", "owner_id", requester.ID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetAllUpcoming(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.BookingDetail, int64, error) {
	if !requester.IsAdmin() {
		return nil, 0, apperrors.Forbidden("Only administrators can list all bookings")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	cutoff := timeslot.ClockAt(s.now().Add(-s.cfg.StartGraceWindow))

	var count int64
	var bookings []*model.BookingDetail
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountUpcoming(ctx, cutoff)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count upcoming bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindUpcoming(ctx, cutoff, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list upcoming bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) CompletedReport(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.BookingDetail, int64, error) {
	if !requester.IsAdmin() {
		return nil, 0, apperrors.Forbidden("Only administrators can view booking reports")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	now := timeslot.ClockAt(s.now())

	var count int64
	var bookings []*model.BookingDetail
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountCompleted(ctx, now)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count completed bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count completed bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindCompleted(ctx, now, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list completed bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve completed bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) MonthlyReport(ctx context.Context, requester model.Requester, year int) ([]*model.MonthlyRoomCount, error) {
	if !requester.IsAdmin() {
		return nil, apperrors.Forbidden("Only administrators can view booking reports")
	}
	if year < 2000 || year > 2100 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("year must be between 2000 and 2100, got: %d", year))
	}

	counts, err := s.repo.MonthlyCounts(ctx, year)
	if err != nil {
		s.cfg.Log.Error("Failed to build monthly booking report",
			"year", year,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to build monthly report", err)
	}

	return counts, nil
}

// --- Helpers ---

// rejectOnConflict re-runs the conflict check under the admission lock. The
// repository returns conflicts ascending by start time, so the error names
// the earliest one.
func (s *bookingService) rejectOnConflict(ctx context.Context, booking *model.Booking) error {
	conflicts, err := s.repo.FindConflicts(ctx, booking.RoomID, booking.Interval())
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if len(conflicts) > 0 {
		first := conflicts[0]
		return apperrors.Conflict(fmt.Sprintf(
			"Room is already booked %s-%s on %s",
			first.StartTime, first.EndTime, first.BookingDate,
		))
	}
	return nil
}

// acquireRoomLock serializes admissions per room and day. When the lock is
// held the requests behind it are usually for different, non-overlapping
// slots, so losing the insert race polls with backoff instead of failing;
// only an actual overlap (found after the lock is won) rejects the booking.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID, date string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s_%s", roomID, date)
	deadline := s.now().Add(s.cfg.LockWaitTimeout)

	for {
		lock := &model.RoomLock{
			ID:        lockID,
			ExpiresAt: time.Now().Add(s.cfg.LockTTL),
		}

		_, err := s.lockRepo.Create(ctx, lock)
		if err == nil {
			return lockID, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Internal("Failed to acquire room lock", err)
		}

		if s.now().After(deadline) {
			s.cfg.Log.Warn("Gave up waiting for room lock",
				"lock_id", lockID,
				"wait_timeout", s.cfg.LockWaitTimeout,
			)
			return "", apperrors.Timeout("Timed out waiting for a concurrent booking on this room, please retry")
		}

		select {
		case <-ctx.Done():
			return "", apperrors.Timeout("Request cancelled while waiting for room lock")
		case <-time.After(s.cfg.LockRetryBackoff):
		}
	}
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
