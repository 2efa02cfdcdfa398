package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/fastcarsales/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type SellerApplicationRepository interface {
	Create(ctx context.Context, app *models.SellerApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error)
	GetPendingByApplicant(ctx context.Context, applicantID uuid.UUID) (*models.SellerApplication, error)
	ListPending(ctx context.Context, limit, offset *int) ([]*models.SellerApplication, error)
	Update(ctx context.Context, app *models.SellerApplication) error
}

type RefreshTokenRepository interface {
	Set(ctx context.Context, accountID uuid.UUID, token string, ttl time.Duration) error
	Get(ctx context.Context, accountID uuid.UUID) (string, error)
	Delete(ctx context.Context, accountID uuid.UUID) error
}

// Repos groups the relational repositories bound to one transaction.
type Repos struct {
	Accounts           AccountRepository
	Profiles           ProfileRepository
	SellerApplications SellerApplicationRepository
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos Repos) error) error
}
