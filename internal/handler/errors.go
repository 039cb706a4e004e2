// Package handler holds the JSON response helpers shared by the storefront,
// admin and webhook handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/middleware"
)

// Config controls error rendering.
type Config struct {
	// ShowErrorDetails echoes the underlying cause of 5xx errors. Development only.
	ShowErrorDetails bool
}

var showErrorDetails atomic.Bool

// Configure applies cfg to every handler.
func Configure(cfg Config) {
	showErrorDetails.Store(cfg.ShowErrorDetails)
}

// ErrorCodeToHTTPStatus maps a domain error code to its HTTP status.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID, domain.ETRANSITION, domain.EAUTHENTICITY:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

// ErrorResponse logs err and writes it as {"error":{"code","message"}}.
// 5xx responses carry a generic message unless ShowErrorDetails is set.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	body := errorBody{Code: code, Message: domain.ErrorMessage(err)}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		code = domain.EINVALID
		body = errorBody{Code: code, Message: "Validation failed", Fields: verr.Fields}
	}

	status := ErrorCodeToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		body.Message = "An internal error occurred. Please try again later."
		if showErrorDetails.Load() {
			body.Detail = err.Error()
		}
	}

	logError(r, err, code, status)

	if !acceptsJSON(r) && !strings.HasPrefix(r.URL.Path, "/api/") && !strings.HasPrefix(r.URL.Path, "/webhooks/") {
		http.Error(w, body.Message, status)
		return
	}
	writeJSON(w, status, map[string]errorBody{"error": body})
}

// NotFoundResponse writes a 404.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// UnauthorizedResponse writes a 401.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required"))
}

// ForbiddenResponse writes a 403.
func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EFORBIDDEN, "", "You don't have permission to access this resource"))
}

// InternalErrorResponse writes a 500 for an unexpected error.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

// BadRequestResponse writes a 400 with message.
func BadRequestResponse(w http.ResponseWriter, r *http.Request, message string) {
	ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "%s", message))
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("Failed to encode response", "error", err)
	}
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.Errorf(domain.ETOOLARGE, "request.decode", "request body too large")
		}
		return domain.Errorf(domain.EINVALID, "request.decode", "invalid JSON body: %v", err)
	}
	return nil
}

func logError(r *http.Request, err error, code string, status int) {
	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", attrs...)
		return
	}
	logger.Info("Request rejected", attrs...)
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}
