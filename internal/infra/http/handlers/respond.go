package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
	"github.com/xavierca1/ecocrm/internal/usecase"
)

const (
	CodeInvalidJSON          = "INVALID_JSON"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeInternal             = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// decodeBody lê o JSON do corpo. Status inválido vira erro de validação,
// o resto é INVALID_JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, entity.ErrInvalidStatus) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   usecase.CodeValidation,
			Message: err.Error(),
			Fields:  []usecase.ValidationError{{Field: "status", Message: "is invalid"}},
		})
		return false
	}
	writeErrorResponse(w, http.StatusBadRequest, CodeInvalidJSON, "JSON inválido: "+err.Error())
	return false
}

// handleError traduz os erros da camada de usecase para HTTP.
func handleError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusUnprocessableEntity
		if de.Code == usecase.CodeLeadNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	if errors.Is(err, usecase.ErrNoAdvice) {
		logger.Warn("⚠️ sugestão indisponível", zap.Error(err))
		writeErrorResponse(w, http.StatusServiceUnavailable, usecase.CodeNoAdvice,
			"Não foi possível gerar a sugestão agora. Tente novamente.")
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		logger.Error("❌ erro técnico", zap.String("code", te.Code), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, "Erro ao salvar os dados")
		return
	}

	logger.Error("❌ erro inesperado", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, CodeInternal, "Erro interno")
}
