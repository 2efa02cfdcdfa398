package handlers

import (
	"errors"
	"net/http"

	"github.com/prudhvinik1/fastcarsales/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (h *Handler) tokenResponse(accessToken string) tokenResponse {
	return tokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(h.opts.AccessTTL.Seconds()),
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	account, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	accessToken, err := h.auth.IssueTokens(r.Context(), w, account.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.tokenResponse(accessToken))
}

// Refresh rotates the token pair using the refresh cookie.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(services.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, r, h.log, services.ErrTokenInvalid)
		return
	}

	accountID, err := h.auth.ValidateRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	accessToken, err := h.auth.IssueTokens(r.Context(), w, accountID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.tokenResponse(accessToken))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), w, account.ID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount deactivates the caller and ends their session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if err := h.users.SoftDelete(r.Context(), account.ID); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.auth.Logout(r.Context(), w, account.ID); err != nil && !errors.Is(err, services.ErrTokenNotFound) {
		h.log.Warn().Err(err).Str("account_id", account.ID.String()).Msg("failed to revoke session of deleted account")
	}
	w.WriteHeader(http.StatusNoContent)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	account, err := h.users.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}
