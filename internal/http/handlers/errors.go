package handlers

import (
	"errors"
	"net/http"

	"travelbook/internal/domain"
	"travelbook/internal/http/middleware"
	"travelbook/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	reqID := middleware.GetRequestID(c)

	var (
		verr domain.ValidationError
		cerr domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		var details any
		if verr.Field != "" {
			details = gin.H{"field": verr.Field}
		}
		respondError(c, http.StatusBadRequest, "validation_error", verr.Error(), details)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.As(err, &cerr) && cerr.Kind == domain.ConflictInventory:
		respondError(c, http.StatusBadRequest, string(domain.ConflictInventory), err.Error(), nil)
	case errors.As(err, &cerr):
		code := string(cerr.Kind)
		if code == "" {
			code = "conflict"
		}
		respondError(c, http.StatusConflict, code, err.Error(), nil)
	case domain.IsTransient(err):
		utils.LogError(reqID, "http", "transient_store_failure", err)
		respondError(c, http.StatusInternalServerError, "transient_store_failure", "storage temporarily unavailable, retry later", nil)
	default:
		utils.LogError(reqID, "http", "internal_error", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
