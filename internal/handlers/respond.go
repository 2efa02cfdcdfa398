package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/services"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

var internalError = errorResponse{
	Error:       "Internal Server Error",
	Description: "An unexpected error occurred.",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError renders AppErrors as they are and hides everything else behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		if appErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
		}
		writeJSON(w, appErr.Status, errorResponse{Error: appErr.Label, Description: appErr.Description})
		return
	}

	log.Error().Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("unhandled error")
	writeJSON(w, http.StatusInternalServerError, internalError)
}

// decodeJSON reads a JSON body into dst and validates it.
func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.ErrValidation.WithDescription("Request body must be valid JSON.")
	}
	if err := h.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.ErrValidation
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return services.ErrValidation.WithDescription(strings.Join(msgs, "; "))
}
