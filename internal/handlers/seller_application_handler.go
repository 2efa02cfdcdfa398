package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/services"
)

type createApplicationRequest struct {
	Details string `json:"details" validate:"required,max=2000"`
}

type reviewApplicationRequest struct {
	Status     models.ApplicationStatus `json:"status" validate:"required"`
	AdminNotes *string                  `json:"admin_notes" validate:"omitempty,max=2000"`
}

func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	account := AccountFromContext(r.Context())
	app, err := h.applications.Create(r.Context(), account.ID, req.Details)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	apps, err := h.applications.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	app, err := h.applications.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *Handler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req reviewApplicationRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	reviewer := AccountFromContext(r.Context())
	app, err := h.applications.Review(r.Context(), id, reviewer.ID, req.Status, req.AdminNotes)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// queryInt returns nil when the parameter is absent.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, services.ErrValidation.WithDescription(name + " must be a non-negative integer")
	}
	return &n, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, services.ErrValidation.WithDescription(name + " must be a valid UUID")
	}
	return id, nil
}
