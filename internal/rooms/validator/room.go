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

type RoomValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	return &RoomValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	if err := v.validate.Struct(room); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateOperatingHours(room.OpenTime, room.CloseTime)
}

func (v *RoomValidator) ValidateUpdate(updates *model.RoomUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if updates.OpenTime != "" && !timeslot.ValidTime(updates.OpenTime) {
		return ValidationErrors{
			ValidationError{Field: "OpenTime", Message: "open_time must be HH:MM"},
		}
	}
	if updates.CloseTime != "" && !timeslot.ValidTime(updates.CloseTime) {
		return ValidationErrors{
			ValidationError{Field: "CloseTime", Message: "close_time must be HH:MM"},
		}
	}

	return nil
}

func (v *RoomValidator) validateOperatingHours(open, close string) error {
	var errs ValidationErrors

	if !timeslot.ValidTime(open) {
		errs = append(errs, ValidationError{Field: "OpenTime", Message: "open_time must be HH:MM"})
	}
	if !timeslot.ValidTime(close) {
		errs = append(errs, ValidationError{Field: "CloseTime", Message: "close_time must be HH:MM"})
	}
	if len(errs) > 0 {
		return errs
	}

	if open >= close {
		return ValidationErrors{
			ValidationError{Field: "CloseTime", Message: "close_time must be after open_time"},
		}
	}

	return nil
}

func (v *RoomValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
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
