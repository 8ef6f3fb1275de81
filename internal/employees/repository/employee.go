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

	employeeserrors "roombook/internal/employees/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

const (
	CollectionName = "Employees"
)

type mongoEmployeeRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	FindByEmail(ctx context.Context, email string) (*model.Employee, error)
	FindAllExcept(ctx context.Context, excludeID string, limit int, offset int64) ([]*model.Employee, error)
	Update(ctx context.Context, id string, employee *model.Employee) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	CountExcept(ctx context.Context, excludeID string) (int64, error)
}

func NewMongoEmployeeRepository(cfg *config.Config) EmployeeRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoEmployeeRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoEmployeeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoEmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	employee.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		employee.ID = oid.Hex()
	}

	return nil
}

func (r *mongoEmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", employeeserrors.ErrInvalidID, id)
	}
	filter := bson.M{"_id": objectID}

	var employee model.Employee
	err = r.collection.FindOne(ctx, filter).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", employeeserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return &employee, nil
}

func (r *mongoEmployeeRepository) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var employee model.Employee
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: email %s", employeeserrors.ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to find employee by email: %w", err)
	}
	return &employee, nil
}

// FindAllExcept lists the directory without the requester's own record; the
// directory view is "everyone else".
func (r *mongoEmployeeRepository) FindAllExcept(ctx context.Context, excludeID string, limit int, offset int64) ([]*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if excludeID != "" {
		if objectID, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": objectID}
		}
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer cursor.Close(ctx)

	var employees []*model.Employee
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	return employees, nil
}

func (r *mongoEmployeeRepository) Update(ctx context.Context, id string, employee *model.Employee) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", employeeserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"name":       employee.Name,
			"department": employee.Department,
			"role":       employee.Role,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", employeeserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoEmployeeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", employeeserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", employeeserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoEmployeeRepository) CountExcept(ctx context.Context, excludeID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if excludeID != "" {
		if objectID, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": objectID}
		}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}
