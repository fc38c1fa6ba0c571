// Package response writes JSON responses in the Django REST framework shapes a Baby Buddy server uses.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
)

// List is the paginated list envelope.
type List struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []any   `json:"results"`
}

// Detail is the body of a non-field error.
type Detail struct {
	Detail string `json:"detail"`
}

// JSON writes data as a JSON response with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// json/v2 MarshalWrite doesn't add a newline, but that's fine for HTTP responses.
	if err := json.MarshalWrite(w, data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Created writes a created response (201 Created).
func Created(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, data, logger)
}

// Page writes a list envelope (200 OK). A nil result slice is written as [].
func Page(w http.ResponseWriter, page List, logger *slog.Logger) {
	if page.Results == nil {
		page.Results = []any{}
	}
	JSON(w, http.StatusOK, page, logger)
}

// NoContent writes a no content response (204 No Content).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a {"detail": message} response with the given status code.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, Detail{Detail: message}, logger)
}

// FieldErrors writes a 400 response mapping field names to their messages.
func FieldErrors(w http.ResponseWriter, fields map[string][]string, logger *slog.Logger) {
	JSON(w, http.StatusBadRequest, fields, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, "Invalid token.", logger)
}

// Throttled writes a 429 Too Many Requests response.
func Throttled(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, "Request was throttled.", logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusNotFound, "Not found.", logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, message, logger)
}
