package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/services"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockAuth) IssueTokens(ctx context.Context, w http.ResponseWriter, accountID uuid.UUID) (string, error) {
	args := m.Called(ctx, w, accountID)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockAuth) AuthenticateAccessToken(ctx context.Context, token string) (*models.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, w http.ResponseWriter, accountID uuid.UUID) error {
	args := m.Called(ctx, w, accountID)
	return args.Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Register(ctx context.Context, email, password, fullName string) (*models.Account, error) {
	args := m.Called(ctx, email, password, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockUsers) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) GetProfile(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockProfiles) UpdateProfile(ctx context.Context, accountID uuid.UUID, upd services.ProfileUpdate) (*models.Profile, error) {
	args := m.Called(ctx, accountID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockProfiles) UploadPicture(ctx context.Context, accountID uuid.UUID, data []byte) (string, error) {
	args := m.Called(ctx, accountID, data)
	return args.String(0), args.Error(1)
}

type mockApplications struct{ mock.Mock }

func (m *mockApplications) Create(ctx context.Context, accountID uuid.UUID, details string) (*models.SellerApplication, error) {
	args := m.Called(ctx, accountID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SellerApplication), args.Error(1)
}

func (m *mockApplications) List(ctx context.Context, limit, offset *int) ([]*models.SellerApplication, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SellerApplication), args.Error(1)
}

func (m *mockApplications) GetByID(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SellerApplication), args.Error(1)
}

func (m *mockApplications) Review(ctx context.Context, id, reviewerID uuid.UUID, status models.ApplicationStatus, notes *string) (*models.SellerApplication, error) {
	args := m.Called(ctx, id, reviewerID, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SellerApplication), args.Error(1)
}
