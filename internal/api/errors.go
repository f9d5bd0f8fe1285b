package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spherical/flipbook-studio/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string          `json:"error"`
	Type     string          `json:"type"`
	Severity domain.Severity `json:"severity"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes err using status, or a status derived from its type when status is 0.
func writeError(w http.ResponseWriter, status int, err error) {
	if status == 0 {
		status = statusFor(err)
	}

	message := err.Error()
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	errType := string(domain.TypeOf(err))
	if errType == "" {
		errType = string(domain.ErrorTypeAPI)
	}

	writeJSON(w, status, ErrorResponse{
		Error:    message,
		Type:     errType,
		Severity: domain.SeverityFor(err),
	})
}

func statusFor(err error) int {
	switch domain.TypeOf(err) {
	case domain.ErrorTypeInputRejected:
		return http.StatusBadRequest
	case domain.ErrorTypeValidationFailed, domain.ErrorTypeDocumentOpenFailed, domain.ErrorTypePageRenderFailed:
		return http.StatusUnprocessableEntity
	case domain.ErrorTypeResolutionUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
