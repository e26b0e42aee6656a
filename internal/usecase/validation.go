package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ecocrm/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateLeadInput(input LeadInput, loc *time.Location) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	}
	if input.BillValue.IsNegative() {
		errors = append(errors, ValidationError{"billValue", "must not be negative"})
	}
	if _, err := entity.ParseReturnTime(input.ReturnDateTime, loc); err != nil {
		errors = append(errors, ValidationError{"returnDateTime", "must be a valid date time"})
	}
	if input.Status != nil && !input.Status.Valid() {
		errors = append(errors, ValidationError{"status", "is invalid"})
	}

	return errors
}

// ValidateLead checks a full lead coming from an update.
func ValidateLead(lead entity.Lead) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(lead.ID) == "" {
		errors = append(errors, ValidationError{"id", "is required"})
	}
	if strings.TrimSpace(lead.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(lead.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	}
	if lead.BillValue.IsNegative() {
		errors = append(errors, ValidationError{"billValue", "must not be negative"})
	}
	if !lead.Status.Valid() {
		errors = append(errors, ValidationError{"status", "is invalid"})
	}

	return errors
}
