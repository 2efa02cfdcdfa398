package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/services"
)

type AuthAPI interface {
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	IssueTokens(ctx context.Context, w http.ResponseWriter, accountID uuid.UUID) (string, error)
	ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	AuthenticateAccessToken(ctx context.Context, token string) (*models.Account, error)
	Logout(ctx context.Context, w http.ResponseWriter, accountID uuid.UUID) error
}

type UserAPI interface {
	Register(ctx context.Context, email, password, fullName string) (*models.Account, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ProfileAPI interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, upd services.ProfileUpdate) (*models.Profile, error)
	UploadPicture(ctx context.Context, accountID uuid.UUID, data []byte) (string, error)
}

type SellerApplicationAPI interface {
	Create(ctx context.Context, accountID uuid.UUID, details string) (*models.SellerApplication, error)
	List(ctx context.Context, limit, offset *int) ([]*models.SellerApplication, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error)
	Review(ctx context.Context, id, reviewerID uuid.UUID, status models.ApplicationStatus, notes *string) (*models.SellerApplication, error)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Options struct {
	CORSOrigins   []string
	AccessTTL     time.Duration
	MaxUploadSize int64
	Checks        map[string]HealthCheck
}

type Handler struct {
	auth         AuthAPI
	users        UserAPI
	profiles     ProfileAPI
	applications SellerApplicationAPI
	opts         Options
	validate     *validator.Validate
	log          *logger.Logger
}

func New(auth AuthAPI, users UserAPI, profiles ProfileAPI, applications SellerApplicationAPI, opts Options, log *logger.Logger) *Handler {
	return &Handler{
		auth:         auth,
		users:        users,
		profiles:     profiles,
		applications: applications,
		opts:         opts,
		validate:     newValidator(),
		log:          log.With("http"),
	}
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.log))
	r.Use(Recoverer(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"WWW-Authenticate"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.With(h.requireAuth).Post("/logout", h.Logout)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(h.requireAuth).Delete("/", h.DeleteAccount)
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/me", h.GetProfile)
		r.Put("/", h.UpdateProfile)
		r.Post("/picture", h.UploadPicture)
	})

	r.Route("/seller-applications", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.With(h.requireRole(models.RoleBuyer)).Post("/", h.CreateApplication)

		r.Group(func(r chi.Router) {
			r.Use(h.requireRole(models.RoleAdmin))
			r.Get("/", h.ListApplications)
			r.Get("/{id}", h.GetApplication)
			r.Post("/{id}/review", h.ReviewApplication)
		})
	})

	return r
}
