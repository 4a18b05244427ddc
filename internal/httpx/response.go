// Package httpx provides JSON response helpers for the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"plantcare-be/internal/apperr"
	"plantcare-be/internal/logger"

	"go.uber.org/zap"
)

// Response is the standard API envelope.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Data: data}); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response. apperr kinds map to their HTTP status;
// anything else is a 500 with the cause hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &ErrorBody{Code: "internal_error", Message: "an internal error occurred"}

	var e *apperr.Error
	if errors.As(err, &e) {
		status = e.HTTPStatus()
		body.Code = e.Code
		body.Message = e.Message
	}

	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Error: body})
}
