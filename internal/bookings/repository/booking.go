package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"
	"roombook/pkg/timeslot"
)

const (
	CollectionName = "Bookings"

	roomsCollection     = "Rooms"
	employeesCollection = "Employees"

	// Placeholders for bookings whose room or owner was deleted after the
	// fact. Listings keep the row instead of failing the whole report.
	orphanRoomName     = "Unknown room"
	orphanEmployeeName = "Unknown employee"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	UpdateEndTime(ctx context.Context, id string, newEnd string) (*mongo.UpdateResult, error)

	FindConflicts(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.Booking, error)
	FindConflictDetails(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error)

	FindUpcomingByOwner(ctx context.Context, ownerID string, cutoff timeslot.Clock, limit int, offset int64) ([]*model.BookingDetail, error)
	CountUpcomingByOwner(ctx context.Context, ownerID string, cutoff timeslot.Clock) (int64, error)
	FindUpcoming(ctx context.Context, cutoff timeslot.Clock, limit int, offset int64) ([]*model.BookingDetail, error)
	CountUpcoming(ctx context.Context, cutoff timeslot.Clock) (int64, error)

	FindCompleted(ctx context.Context, now timeslot.Clock, limit int, offset int64) ([]*model.BookingDetail, error)
	CountCompleted(ctx context.Context, now timeslot.Clock) (int64, error)
	MonthlyCounts(ctx context.Context, year int) ([]*model.MonthlyRoomCount, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without breaking transaction semantics,
// so it is returned unchanged with a no-op cancel.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var booking model.Booking
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) UpdateEndTime(ctx context.Context, id string, newEnd string) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{"$set": bson.M{"end_time": newEnd}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking end time: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, bookingserrors.ErrNotFound
	}

	return result, nil
}

// conflictFilter expresses the half-open overlap rule directly in the query:
// an existing booking conflicts iff it starts before the candidate ends and
// ends after the candidate starts. Fixed-width HH:MM strings make the range
// comparisons valid.
func conflictFilter(roomID string, interval timeslot.Interval) bson.M {
	return bson.M{
		"room_id":      roomID,
		"booking_date": interval.Date,
		"start_time":   bson.M{"$lt": interval.End},
		"end_time":     bson.M{"$gt": interval.Start},
	}
}

func (r *mongoBookingRepository) FindConflicts(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, conflictFilter(roomID, interval), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode conflicting bookings: %w", err)
	}

	return bookings, nil
}

// detailStages joins each booking with its room and owner. The string ids
// are converted with onError/onNull fallbacks so an orphan reference yields
// the placeholder name instead of aborting the pipeline.
func detailStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from": roomsCollection,
			"let": bson.M{"rid": bson.M{"$convert": bson.M{
				"input":   "$room_id",
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []any{"$_id", "$$rid"}}}},
			},
			"as": "room",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": employeesCollection,
			"let": bson.M{"oid": bson.M{"$convert": bson.M{
				"input":   "$owner_id",
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []any{"$_id", "$$oid"}}}},
			},
			"as": "owner",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":          bson.M{"$toString": "$_id"},
			"room_id":      1,
			"owner_id":     1,
			"booking_date": 1,
			"start_time":   1,
			"end_time":     1,
			"room_name": bson.M{"$ifNull": []any{
				bson.M{"$arrayElemAt": []any{"$room.name", 0}},
				orphanRoomName,
			}},
			"booked_by": bson.M{"$ifNull": []any{
				bson.M{"$arrayElemAt": []any{"$owner.name", 0}},
				orphanEmployeeName,
			}},
			"booked_by_email": bson.M{"$ifNull": []any{
				bson.M{"$arrayElemAt": []any{"$owner.email", 0}},
				"",
			}},
		}}},
	}
}

func (r *mongoBookingRepository) aggregateDetails(ctx context.Context, match bson.M, sort bson.D, limit int, offset int64) ([]*model.BookingDetail, error) {
	pipeline := []bson.D{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
	}
	if offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: offset}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	pipeline = append(pipeline, detailStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking details: %w", err)
	}
	defer cursor.Close(ctx)

	var details []*model.BookingDetail
	if err = cursor.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("failed to decode booking details: %w", err)
	}

	return details, nil
}

func (r *mongoBookingRepository) FindConflictDetails(ctx context.Context, roomID string, interval timeslot.Interval) ([]*model.BookingDetail, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.aggregateDetails(ctx,
		conflictFilter(roomID, interval),
		bson.D{{Key: "start_time", Value: 1}},
		0, 0,
	)
}

// upcomingFilter keeps bookings whose start has not passed the cutoff. The
// caller moves the cutoff back by the grace window so a meeting that just
// started still shows.
func upcomingFilter(cutoff timeslot.Clock) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"booking_date": bson.M{"$gt": cutoff.Date}},
			{"booking_date": cutoff.Date, "start_time": bson.M{"$gte": cutoff.Time}},
		},
	}
}

func completedFilter(now timeslot.Clock) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"booking_date": bson.M{"$lt": now.Date}},
			{"booking_date": now.Date, "end_time": bson.M{"$lte": now.Time}},
		},
	}
}

func (r *mongoBookingRepository) FindUpcomingByOwner(ctx context.Context, ownerID string, cutoff timeslot.Clock, limit int, offset int64) ([]*model.BookingDetail, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := upcomingFilter(cutoff)
	filter["owner_id"] = ownerID

	return r.aggregateDetails(ctx, filter,
		bson.D{{Key: "booking_date", Value: 1}, {Key: "start_time", Value: 1}},
		limit, offset,
	)
}

func (r *mongoBookingRepository) CountUpcomingByOwner(ctx context.Context, ownerID string, cutoff timeslot.Clock) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := upcomingFilter(cutoff)
	filter["owner_id"] = ownerID

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming bookings by owner: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindUpcoming(ctx context.Context, cutoff timeslot.Clock, limit int, offset int64) ([]*model.BookingDetail, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.aggregateDetails(ctx, upcomingFilter(cutoff),
		bson.D{{Key: "booking_date", Value: 1}, {Key: "start_time", Value: 1}},
		limit, offset,
	)
}

func (r *mongoBookingRepository) CountUpcoming(ctx context.Context, cutoff timeslot.Clock) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, upcomingFilter(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindCompleted(ctx context.Context, now timeslot.Clock, limit int, offset int64) ([]*model.BookingDetail, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.aggregateDetails(ctx, completedFilter(now),
		bson.D{{Key: "booking_date", Value: -1}, {Key: "start_time", Value: -1}},
		limit, offset,
	)
}

func (r *mongoBookingRepository) CountCompleted(ctx context.Context, now timeslot.Clock) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, completedFilter(now))
	if err != nil {
		return 0, fmt.Errorf("failed to count completed bookings: %w", err)
	}
	return count, nil
}

// MonthlyCounts groups the year's bookings per month and room. The month is
// sliced straight out of the YYYY-MM-DD string.
func (r *mongoBookingRepository) MonthlyCounts(ctx context.Context, year int) ([]*model.MonthlyRoomCount, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	prefix := fmt.Sprintf("%04d-", year)

	pipeline := []bson.D{
		{{Key: "$match", Value: bson.M{
			"booking_date": bson.M{"$regex": "^" + prefix},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"month": bson.M{"$toInt": bson.M{"$substrBytes": []any{"$booking_date", 5, 2}}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"month": "$month", "room_id": "$room_id"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": roomsCollection,
			"let": bson.M{"rid": bson.M{"$convert": bson.M{
				"input":   "$_id.room_id",
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []any{"$_id", "$$rid"}}}},
			},
			"as": "room",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"month": "$_id.month",
			"count": 1,
			"room_name": bson.M{"$ifNull": []any{
				bson.M{"$arrayElemAt": []any{"$room.name", 0}},
				orphanRoomName,
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "month", Value: 1},
			{Key: "count", Value: -1},
			{Key: "room_name", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly counts: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []*model.MonthlyRoomCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode monthly counts: %w", err)
	}

	return counts, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
