package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/internal/types"
)

var errNoFile = errors.New("choose a CSV file to import")

// status returns the appropriate HTTP status for an error
func status(err error) int {
	var (
		input      *types.InputError
		format     *types.FormatError
		validation *types.ValidationError
		binding    validator.ValidationErrors
	)

	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &input), errors.As(err, &format), errors.As(err, &validation), errors.As(err, &binding):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the text shown to the user for an error.
func errorMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	texts := make([]string, 0, len(errs))
	for _, e := range errs {
		texts = append(texts, validationErrorToText(e))
	}

	return strings.Join(texts, ", ")
}

func validationErrorToText(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s characters", field, e.Param())
	}
	return fmt.Sprintf("%s is not valid", field)
}
