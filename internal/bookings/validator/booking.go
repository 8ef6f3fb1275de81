package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/timeslot"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate checks a booking before admission: struct fields, a well-formed
// interval, the room's operating hours, and that the slot has not already
// started. The conflict check against other bookings happens later, under
// the admission lock.
func (v *BookingValidator) Validate(booking *model.Booking, room *model.Room, now timeslot.Clock) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	interval, err := timeslot.New(booking.BookingDate, booking.StartTime, booking.EndTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "Interval", Message: err.Error()},
		}
	}

	if !interval.Within(room.OpenTime, room.CloseTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "Interval",
				Message: fmt.Sprintf("booking must fall within room hours %s-%s", room.OpenTime, room.CloseTime),
			},
		}
	}

	if interval.StartsBefore(now) {
		return ValidationErrors{
			ValidationError{Field: "StartTime", Message: "booking cannot start in the past"},
		}
	}

	return nil
}

// ValidateShorten enforces the only permitted update: pulling the end time
// earlier while keeping start < newEnd <= currentEnd.
func (v *BookingValidator) ValidateShorten(existing *model.Booking, newEnd string) error {
	if !timeslot.ValidTime(newEnd) {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: "end_time must be HH:MM"},
		}
	}
	if newEnd <= existing.StartTime {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: "end_time must be after start_time"},
		}
	}
	if newEnd > existing.EndTime {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: "end_time can only be moved earlier"},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
