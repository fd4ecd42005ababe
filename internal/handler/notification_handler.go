package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smart-erp/internal/middleware"
	"smart-erp/internal/model"
	"smart-erp/internal/service"
	"smart-erp/internal/websocket"
	"smart-erp/pkg/apierror"
)

type NotificationHandler struct {
	notifications *service.NotificationService
	hub           *websocket.Hub
}

func NewNotificationHandler(notifications *service.NotificationService, hub *websocket.Hub) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, hub: hub}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("missing credentials"))
		return
	}

	notifications, err := h.notifications.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, notifications, len(notifications))
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("missing credentials"))
		return
	}

	notification, err := h.notifications.MarkRead(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, notification)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("missing credentials"))
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "All notifications marked as read."})
}

// Create lets a client push an arbitrary notification into its own feed.
// The target account is always the caller; there is no cross-account send.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("missing credentials"))
		return
	}

	var req model.CreateNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	notification, err := h.notifications.Notify(r.Context(), claims.UserID, req.Kind, req.Title, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, notification)
}

// Stream upgrades the connection to a websocket that receives the caller's
// feed events as they happen. Clients that prefer polling just use List.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("missing credentials"))
		return
	}

	h.hub.Serve(w, r, claims.UserID)
}
