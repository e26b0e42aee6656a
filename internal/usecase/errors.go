package usecase

import (
	"errors"
	"strings"

	"github.com/xavierca1/ecocrm/internal/entity"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeLeadNotFound = "LEAD_NOT_FOUND"
	CodeStoreError   = "STORE_ERROR"
	CodeNoAdvice     = "NO_ADVICE"
)

var (
	ErrValidation = errors.New("validation failed")
	// ErrNoAdvice é o único erro que chega ao chamador quando a IA falha.
	ErrNoAdvice = errors.New("no advice available")

	errProviderDisabled = errors.New("advice provider not configured")
	errIncompleteAdvice = errors.New("advice response missing required fields")
)

// DomainError é um erro de regra de negócio, mostrado ao usuário.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha de infraestrutura (store, rede).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func newValidationError(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Fields:  errs,
		Err:     ErrValidation,
	}
}

func newNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    CodeLeadNotFound,
		Message: "lead não encontrado: " + id,
		Err:     entity.ErrLeadNotFound,
	}
}

// AdviceProviderError guarda a causa real da falha da IA para o log.
type AdviceProviderError struct {
	LeadID string
	Err    error
}

func (e *AdviceProviderError) Error() string {
	return "advice provider failed for lead " + e.LeadID + ": " + e.Err.Error()
}

func (e *AdviceProviderError) Unwrap() []error {
	return []error{ErrNoAdvice, e.Err}
}
