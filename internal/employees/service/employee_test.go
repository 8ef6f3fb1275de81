package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	employeeserrors "roombook/internal/employees/errors"
	"roombook/internal/employees/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

const (
	adminID    = "64f1a2b3c4d5e6f7a8b9c0a1"
	employeeID = "64f1a2b3c4d5e6f7a8b9c0a2"
)

type mockEmployeeRepository struct {
	createFunc        func(ctx context.Context, employee *model.Employee) error
	findByIDFunc      func(ctx context.Context, id string) (*model.Employee, error)
	findByEmailFunc   func(ctx context.Context, email string) (*model.Employee, error)
	findAllExceptFunc func(ctx context.Context, excludeID string, limit int, offset int64) ([]*model.Employee, error)
	deleteFunc        func(ctx context.Context, id string) error
	countExceptFunc   func(ctx context.Context, excludeID string) (int64, error)
}

func (m *mockEmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, employee)
	}
	return nil
}

func (m *mockEmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, employeeserrors.ErrNotFound
}

func (m *mockEmployeeRepository) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, employeeserrors.ErrNotFound
}

func (m *mockEmployeeRepository) FindAllExcept(ctx context.Context, excludeID string, limit int, offset int64) ([]*model.Employee, error) {
	if m.findAllExceptFunc != nil {
		return m.findAllExceptFunc(ctx, excludeID, limit, offset)
	}
	return nil, nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, id string, employee *model.Employee) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockEmployeeRepository) CountExcept(ctx context.Context, excludeID string) (int64, error) {
	if m.countExceptFunc != nil {
		return m.countExceptFunc(ctx, excludeID)
	}
	return 0, nil
}

func newTestService(repo *mockEmployeeRepository) *employeeService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		ReadTimeout: 5 * time.Second,
	}
	return &employeeService{
		repo:      repo,
		validator: validator.NewEmployeeValidator(cfg.Log),
		cfg:       cfg,
	}
}

func validEmployee() *model.Employee {
	return &model.Employee{
		Name:       "Dana Levi",
		Email:      "dana@example.com",
		Department: "Engineering",
	}
}

func TestCreate_AdminOnly(t *testing.T) {
	called := false
	repo := &mockEmployeeRepository{
		createFunc: func(ctx context.Context, employee *model.Employee) error {
			called = true
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), model.Requester{ID: employeeID}, validEmployee())
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}
	if called {
		t.Error("repo.Create must not run for non-admins")
	}

	err = svc.Create(context.Background(), model.Requester{ID: adminID, Role: model.RoleAdmin}, validEmployee())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected employee to be persisted")
	}
}

func TestCreate_SanitizesAndDefaultsRole(t *testing.T) {
	var stored *model.Employee
	repo := &mockEmployeeRepository{
		createFunc: func(ctx context.Context, employee *model.Employee) error {
			stored = employee
			return nil
		},
	}
	svc := newTestService(repo)

	employee := &model.Employee{
		Name:       "  Dana   Levi ",
		Email:      "Dana@Example.COM",
		Department: " Engineering ",
	}
	if err := svc.Create(context.Background(), model.Requester{ID: adminID, Role: model.RoleAdmin}, employee); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Name != "Dana Levi" {
		t.Errorf("expected name normalized, got %q", stored.Name)
	}
	if stored.Email != "dana@example.com" {
		t.Errorf("expected email lowered, got %q", stored.Email)
	}
	if stored.Role != model.RoleEmployee {
		t.Errorf("expected role defaulted to employee, got %q", stored.Role)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := &mockEmployeeRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.Employee, error) {
			return validEmployee(), nil
		},
		createFunc: func(ctx context.Context, employee *model.Employee) error {
			t.Error("create must not run for duplicate email")
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), model.Requester{ID: adminID, Role: model.RoleAdmin}, validEmployee())
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestGetAll_ExcludesRequester(t *testing.T) {
	var excludedID string
	repo := &mockEmployeeRepository{
		findAllExceptFunc: func(ctx context.Context, excludeID string, limit int, offset int64) ([]*model.Employee, error) {
			excludedID = excludeID
			return []*model.Employee{validEmployee()}, nil
		},
		countExceptFunc: func(ctx context.Context, excludeID string) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(repo)

	admin := model.Requester{ID: adminID, Role: model.RoleAdmin}
	employees, count, err := svc.GetAll(context.Background(), admin, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if excludedID != adminID {
		t.Errorf("expected requester excluded from listing, got %q", excludedID)
	}
	if count != 1 || len(employees) != 1 {
		t.Errorf("expected one employee, got count=%d len=%d", count, len(employees))
	}

	_, _, err = svc.GetAll(context.Background(), model.Requester{ID: employeeID}, 10, 0)
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}
}

func TestDelete_BlocksSelfDelete(t *testing.T) {
	repo := &mockEmployeeRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			t.Error("delete must not run for the requester's own account")
			return nil
		},
	}
	svc := newTestService(repo)

	admin := model.Requester{ID: adminID, Role: model.RoleAdmin}
	err := svc.Delete(context.Background(), admin, adminID)
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input for self-delete, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	deleted := ""
	repo := &mockEmployeeRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newTestService(repo)

	admin := model.Requester{ID: adminID, Role: model.RoleAdmin}
	if err := svc.Delete(context.Background(), admin, employeeID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != employeeID {
		t.Errorf("expected %s deleted, got %s", employeeID, deleted)
	}
}
