package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/saadraza/portfolio-backend/errs"
)

// envelope is the uniform response shape. Every endpoint, success or
// failure, serializes through it.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Errors     []errs.FieldError `json:"errors,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, limit int, total int64) *Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteData sends a 200 success envelope around data.
func (r Responder) WriteData(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// WriteCreated sends a 201 success envelope with a message and data.
func (r Responder) WriteCreated(w http.ResponseWriter, message string, data any) {
	r.writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// WriteMessage sends a 200 success envelope with a message and optional data.
func (r Responder) WriteMessage(w http.ResponseWriter, message string, data any) {
	r.writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// WritePage sends a 200 success envelope with data and pagination metadata.
func (r Responder) WritePage(w http.ResponseWriter, data any, p *Pagination) {
	r.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: p})
}

// WriteError maps an error to the failure envelope. Unexpected errors are
// logged with their full chain and reported as a generic 500.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.writeJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "An unexpected error occurred",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("internal error")
		r.writeJSON(w, apiErr.StatusCode, envelope{
			Success: false,
			Message: "An unexpected error occurred",
		})
		return
	}

	r.writeJSON(w, apiErr.StatusCode, envelope{
		Success: false,
		Message: apiErr.Error(),
		Errors:  apiErr.Fields,
	})
}

// wrapDatabaseError attaches operation context to a store failure.
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
