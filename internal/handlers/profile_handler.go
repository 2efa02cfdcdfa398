package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/prudhvinik1/fastcarsales/internal/services"
)

// multipartOverhead bounds the form envelope around the uploaded file.
const multipartOverhead = 64 << 10

type updateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	City     *string `json:"city" validate:"omitempty,max=100"`
	State    *string `json:"state" validate:"omitempty,max=100"`
	Country  *string `json:"country" validate:"omitempty,max=100"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	profile, err := h.profiles.GetProfile(r.Context(), account.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	account := AccountFromContext(r.Context())
	profile, err := h.profiles.UpdateProfile(r.Context(), account.ID, services.ProfileUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UploadPicture reads one multipart "file" part. Reading stops one byte past the
// limit so the service can tell an oversized file from one exactly at the limit.
func (h *Handler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	limit := h.opts.MaxUploadSize
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, h.log, services.ErrPayloadTooLarge)
			return
		}
		writeError(w, r, h.log, services.ErrValidation.WithDescription("A file is required in the \"file\" field."))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	account := AccountFromContext(r.Context())
	pictureURL, err := h.profiles.UploadPicture(r.Context(), account.ID, data)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"picture_url": pictureURL})
}
