package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
)

var (
	_ repositories.AccountRepository           = (*AccountRepository)(nil)
	_ repositories.ProfileRepository           = (*ProfileRepository)(nil)
	_ repositories.SellerApplicationRepository = (*SellerApplicationRepository)(nil)
	_ repositories.RefreshTokenRepository      = (*RefreshTokenRepository)(nil)
	_ repositories.TxRunner                    = (*TxRunner)(nil)
)

type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, accountID)
	profile, _ := args.Get(0).(*models.Profile)
	return profile, args.Error(1)
}

func (m *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type SellerApplicationRepository struct {
	mock.Mock
}

func (m *SellerApplicationRepository) Create(ctx context.Context, app *models.SellerApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *SellerApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error) {
	args := m.Called(ctx, id)
	app, _ := args.Get(0).(*models.SellerApplication)
	return app, args.Error(1)
}

func (m *SellerApplicationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error) {
	args := m.Called(ctx, id)
	app, _ := args.Get(0).(*models.SellerApplication)
	return app, args.Error(1)
}

func (m *SellerApplicationRepository) GetPendingByApplicant(ctx context.Context, applicantID uuid.UUID) (*models.SellerApplication, error) {
	args := m.Called(ctx, applicantID)
	app, _ := args.Get(0).(*models.SellerApplication)
	return app, args.Error(1)
}

func (m *SellerApplicationRepository) ListPending(ctx context.Context, limit, offset *int) ([]*models.SellerApplication, error) {
	args := m.Called(ctx, limit, offset)
	apps, _ := args.Get(0).([]*models.SellerApplication)
	return apps, args.Error(1)
}

func (m *SellerApplicationRepository) Update(ctx context.Context, app *models.SellerApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

type RefreshTokenRepository struct {
	mock.Mock
}

func (m *RefreshTokenRepository) Set(ctx context.Context, accountID uuid.UUID, token string, ttl time.Duration) error {
	args := m.Called(ctx, accountID, token, ttl)
	return args.Error(0)
}

func (m *RefreshTokenRepository) Get(ctx context.Context, accountID uuid.UUID) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *RefreshTokenRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// TxRunner runs fn against Repos without a database and counts the calls.
// Committed counts the calls whose fn returned nil.
type TxRunner struct {
	Repos     repositories.Repos
	Calls     int
	Committed int
}

func (t *TxRunner) RunInTx(_ context.Context, fn func(repos repositories.Repos) error) error {
	t.Calls++
	if err := fn(t.Repos); err != nil {
		return err
	}
	t.Committed++
	return nil
}
