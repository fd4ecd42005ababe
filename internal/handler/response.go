package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"smart-erp/internal/model"
	"smart-erp/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, model.APIResponse{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    &model.Meta{Total: total},
	})
}

// writeError maps service errors onto the response envelope. APIError values
// carry their own status; sentinel errors get a default mapping; anything
// else is logged and reported as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.HTTPStatus, model.APIResponse{
			Success: false,
			Error: &model.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrNotificationNotFound),
		errors.Is(err, model.ErrNotFound):
		writeError(w, apierror.NotFound("resource not found", ""))
	case errors.Is(err, model.ErrUserAlreadyExists):
		writeError(w, apierror.Conflict("user already exists", ""))
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrUnauthorized),
		errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenExpired):
		writeError(w, apierror.Unauthorized("unauthorized"))
	case errors.Is(err, model.ErrForbidden):
		writeError(w, apierror.Forbidden("forbidden"))
	case errors.Is(err, model.ErrInvalidInput):
		writeError(w, apierror.BadRequest("invalid input", ""))
	default:
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, model.APIResponse{
			Success: false,
			Error: &model.APIError{
				Code:    "INTERNAL_ERROR",
				Message: "an unexpected error occurred",
			},
		})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.BadRequest("invalid request body", "")
	}
	return nil
}
