// Package handler provides the HTTP handlers for the public API.
package handler

import (
	"net/http"
	"strconv"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

// uintParam parses a numeric URL parameter.
func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return uint(id), nil
}

// callerID returns the authenticated user id; the auth middleware guarantees
// it is present on protected routes.
func callerID(r *http.Request) (uint, error) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return 0, apperr.Unauthenticated("missing identity")
	}
	return id, nil
}
