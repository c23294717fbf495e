// Package service holds the use cases of the songbook backend.
//
// Each service is a façade over one area (categories, songs, playlists,
// users, profiles, the music catalog) and each exported method is one use
// case: validate the input, make the single store call it needs, and map
// the result into a view.
//
//	Handler  → parses HTTP, writes JSON
//	Service  → validates, enforces ownership, maps to views
//	Repository → reads/writes the store
//
// Services depend on the repository interfaces, never on the sqlite package,
// so tests swap in the in-memory fakes from fakes_test.go.
//
// Every user-scoped method fails with apperror.ErrUnauthorized before any
// store call when the user ID is empty.
package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/songbook/internal/apperror"
)

// Validation limits shared by the services.
const (
	MaxTitleLength  = 100
	MaxArtistLength = 100
	MaxNameLength   = 100
)

// validate checks single values (emails, URLs) with the same tag language
// the handlers use for request bodies.
var validate = validator.New()

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperror.Unauthorized("you must be logged in")
	}
	return nil
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed(field, field+" is required")
	}
	return nil
}

// cleanText trims s and enforces 1..max characters. An empty result is a
// validation failure only when required is true.
func cleanText(field, s string, max int, required bool) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" && required {
		return "", apperror.ValidationFailed(field, field+" is required")
	}
	if utf8.RuneCountInString(s) > max {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be %d characters or less", field, max))
	}
	return s, nil
}
