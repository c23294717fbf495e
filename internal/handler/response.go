package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON / writeError, so every error body
// has the same shape:
//
//	{"error": "not_found", "message": "song not found with id abc123"}
//
// Validation errors also name the offending field:
//
//	{"error": "validation_error", "message": "title is required", "field": "title"}

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/auth"
	"github.com/sakif/songbook/internal/music"
)

// maxBodyBytes caps request bodies. The largest legitimate body is a song
// details sheet with notes.
const maxBodyBytes = 64 << 10

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

var validate = validator.New()

func init() {
	// Report the JSON name of a field, not the Go one.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; logging is all that is left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status.
//
// errors.Is walks the whole chain, so a service error like
//
//	fmt.Errorf("getting song: %w", apperror.NotFound("song", id))
//
// still maps to 404. Anything unrecognised is a 500 with a generic message;
// raw error text can carry SQL or file paths and never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, music.ErrUnavailable):
		w.Header().Set("Retry-After", "30")
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "unavailable",
			Message: "the music catalog is temporarily unavailable",
		})
		return
	case errors.Is(err, music.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "the music catalog returned an error",
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a single JSON object into dst and runs its validate tags.
// Failures come back as apperror validation errors ready for writeError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperror.ValidationFailed("", "request body is too large")
		case errors.Is(err, io.EOF):
			return apperror.ValidationFailed("", "request body is required")
		default:
			return apperror.ValidationFailed("", "invalid JSON body")
		}
	}
	if dec.More() {
		return apperror.ValidationFailed("", "request body must be a single JSON object")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return apperror.ValidationFailed("", "invalid request body")
	}
	return nil
}

func fieldError(e validator.FieldError) error {
	field := e.Field()
	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "email":
		msg = fmt.Sprintf("%s must be a valid email", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return apperror.ValidationFailed(field, msg)
}

// currentUser reads the ID RequireAuth put in the context. On an unprotected
// route it is empty and the service answers Unauthorized.
func currentUser(r *http.Request) string {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}
