package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	employeeserrors "roombook/internal/employees/errors"
	"roombook/internal/employees/repository"
	"roombook/internal/employees/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

type EmployeeService interface {
	Create(ctx context.Context, requester model.Requester, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetAll(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.Employee, int64, error)
	Update(ctx context.Context, requester model.Requester, id string, updates *model.EmployeeUpdate) error
	Delete(ctx context.Context, requester model.Requester, id string) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	validator *validator.EmployeeValidator
	cfg       *config.Config
}

func NewEmployeeService(
	repo repository.EmployeeRepository,
	validator *validator.EmployeeValidator,
	cfg *config.Config,
) EmployeeService {
	return &employeeService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *employeeService) Create(ctx context.Context, requester model.Requester, employee *model.Employee) error {
	if !requester.IsAdmin() {
		return apperrors.Forbidden("Only administrators can register employees")
	}

	s.sanitize(employee)
	if employee.Role == "" {
		employee.Role = model.RoleEmployee
	}

	if err := s.validator.Validate(employee); err != nil {
		s.cfg.Log.Warn("Employee validation failed",
			"email", employee.Email,
			"error", err,
		)
		return apperrors.Validation("Employee validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	existing, err := s.repo.FindByEmail(ctx, employee.Email)
	if err != nil && !errors.Is(err, employeeserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check for duplicate email",
			"email", employee.Email,
			"error", err,
		)
		return apperrors.Internal("Failed to create employee", err)
	}
	if existing != nil {
		return apperrors.Conflict(fmt.Sprintf("Employee with email %s already exists", employee.Email))
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		s.cfg.Log.Error("Failed to create employee",
			"email", employee.Email,
			"error", err,
		)
		return apperrors.Internal("Failed to create employee", err)
	}

	s.cfg.Log.Info("Employee created successfully",
		"id", employee.ID,
		"email", employee.Email,
		"role", employee.Role,
	)

	return nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Employee ID cannot be empty")
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Employee", id)
		}
		if errors.Is(err, employeeserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid employee ID format")
		}
		s.cfg.Log.Error("Failed to get employee by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve employee", err)
	}

	return employee, nil
}

func (s *employeeService) GetAll(ctx context.Context, requester model.Requester, limit int, offset int64) ([]*model.Employee, int64, error) {
	if !requester.IsAdmin() {
		return nil, 0, apperrors.Forbidden("Only administrators can list employees")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var employees []*model.Employee
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		count, err = s.repo.CountExcept(ctx, requester.ID)
		if err != nil {
			s.cfg.Log.Error("Failed to count employees", "error", err)
			errCount = apperrors.Internal("Failed to count employees", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		employees, err = s.repo.FindAllExcept(ctx, requester.ID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all employees",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve employees", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return employees, count, nil
}

func (s *employeeService) Update(ctx context.Context, requester model.Requester, id string, updates *model.EmployeeUpdate) error {
	if !requester.IsAdmin() {
		return apperrors.Forbidden("Only administrators can update employees")
	}
	if id == "" {
		return apperrors.InvalidInput("Employee ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Employee", id)
		}
		if errors.Is(err, employeeserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid employee ID format")
		}
		return apperrors.Internal("Failed to check employee existence", err)
	}

	s.sanitizeUpdate(updates)
	merged := s.mergeEmployeeUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Employee validation failed",
			"id", id,
			"error", err,
		)
		return apperrors.Validation("Employee validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update employee",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update employee", err)
	}

	s.cfg.Log.Info("Employee updated successfully",
		"id", id,
		"role", merged.Role,
	)

	return nil
}

func (s *employeeService) Delete(ctx context.Context, requester model.Requester, id string) error {
	if !requester.IsAdmin() {
		return apperrors.Forbidden("Only administrators can delete employees")
	}
	if id == "" {
		return apperrors.InvalidInput("Employee ID cannot be empty")
	}
	if id == requester.ID {
		return apperrors.InvalidInput("Administrators cannot delete their own account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, employeeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Employee", id)
		}
		if errors.Is(err, employeeserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid employee ID format")
		}
		s.cfg.Log.Error("Failed to delete employee",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete employee", err)
	}

	s.cfg.Log.Info("Employee deleted successfully", "id", id)

	return nil
}

func (s *employeeService) sanitize(employee *model.Employee) {
	employee.Name = sanitizer.NormalizeName(employee.Name)
	employee.Email = sanitizer.NormalizeEmail(employee.Email)
	employee.Department = sanitizer.NormalizeDepartment(employee.Department)
}

func (s *employeeService) sanitizeUpdate(updates *model.EmployeeUpdate) {
	if updates.Name != "" {
		updates.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Department != "" {
		updates.Department = sanitizer.NormalizeDepartment(updates.Department)
	}
}

func (s *employeeService) mergeEmployeeUpdates(existing *model.Employee, updates *model.EmployeeUpdate) *model.Employee {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Department != "" {
		merged.Department = updates.Department
	}
	if updates.Role != "" {
		merged.Role = updates.Role
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	return &merged
}
