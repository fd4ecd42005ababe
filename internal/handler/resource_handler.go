package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"smart-erp/internal/middleware"
	"smart-erp/internal/model"
	"smart-erp/pkg/apierror"
)

// Validator normalizes a record in place, applying defaults and checking
// enum fields. Implemented with pointer receivers by every record type.
type Validator interface {
	Validate() error
}

type ResourceStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// ResourceHandler serves the CRUD surface shared by every record module.
// The second type parameter ties Validate's pointer receiver to T so the
// handler can normalize decoded bodies without reflection.
type ResourceHandler[T any, PT interface {
	*T
	Validator
}] struct {
	name        string
	store       ResourceStore[T]
	afterCreate func(ctx context.Context, claims *model.AuthClaims, created T)
}

func NewResourceHandler[T any, PT interface {
	*T
	Validator
}](name string, store ResourceStore[T]) *ResourceHandler[T, PT] {
	return &ResourceHandler[T, PT]{name: name, store: store}
}

// WithAfterCreate registers a hook that runs after a successful create,
// before the response is written. Hook failures are deliberately not
// surfaced; the record is already committed.
func (h *ResourceHandler[T, PT]) WithAfterCreate(hook func(ctx context.Context, claims *model.AuthClaims, created T)) *ResourceHandler[T, PT] {
	h.afterCreate = hook
	return h
}

func (h *ResourceHandler[T, PT]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *ResourceHandler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, items, len(items))
}

func (h *ResourceHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeBody(r, &item); err != nil {
		writeError(w, err)
		return
	}

	if err := PT(&item).Validate(); err != nil {
		writeError(w, apierror.BadRequest(err.Error(), ""))
		return
	}

	created, err := h.store.Create(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.afterCreate != nil {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			h.afterCreate(r.Context(), claims, created)
		}
	}

	writeSuccess(w, http.StatusCreated, created)
}

func (h *ResourceHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var item T
	if err := decodeBody(r, &item); err != nil {
		writeError(w, err)
		return
	}

	if err := PT(&item).Validate(); err != nil {
		writeError(w, apierror.BadRequest(err.Error(), ""))
		return
	}

	updated, err := h.store.Update(r.Context(), id, item)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, updated)
}

func (h *ResourceHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Deleted."})
}

// BulkDelete removes every listed id in one statement. Unknown ids are
// skipped rather than failing the batch; the response reports how many
// rows actually went away.
func (h *ResourceHandler[T, PT]) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req model.BulkDeleteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if len(req.IDs) == 0 {
		writeError(w, apierror.BadRequest("ids are required", ""))
		return
	}

	deleted, err := h.store.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("bulk delete", "resource", h.name, "requested", len(req.IDs), "deleted", deleted)
	writeSuccess(w, http.StatusOK, model.BulkDeleteResponse{Deleted: deleted})
}
