package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
	"github.com/prudhvinik1/fastcarsales/internal/utils"
)

const (
	maxSlugAttempts = 5
	slugSuffixBytes = 4
	fallbackSlug    = "user"
)

// AccountUpdate is a partial update; nil fields are left unchanged.
type AccountUpdate struct {
	Email    *string
	Role     *models.Role
	IsActive *bool
}

type UserService struct {
	accounts   repositories.AccountRepository
	tx         repositories.TxRunner
	bcryptCost int
	log        *logger.Logger
	newSuffix  func() (string, error)
}

func NewUserService(
	accounts repositories.AccountRepository,
	tx repositories.TxRunner,
	bcryptCost int,
	log *logger.Logger,
) *UserService {
	return &UserService{
		accounts:   accounts,
		tx:         tx,
		bcryptCost: bcryptCost,
		log:        log.With("users"),
		newSuffix:  func() (string, error) { return utils.RandomHex(slugSuffixBytes) },
	}
}

// Register creates a buyer account and its profile in one transaction.
// A slug collision retries the whole transaction with a fresh suffix.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*models.Account, error) {
	_, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		s.log.Warn().Str("email", email).Msg("registration attempt with existing email")
		return nil, ErrEmailConflict
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := utils.HashPassword(password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrValidation.WithDescription("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, err
	}

	base := utils.Slugify(fullName)
	if base == "" {
		base = fallbackSlug
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		suffix, err := s.newSuffix()
		if err != nil {
			return nil, err
		}

		account := &models.Account{
			Email:        email,
			PasswordHash: hashedPassword,
			Role:         models.RoleBuyer,
			IsActive:     true,
		}
		profile := &models.Profile{Slug: base + "-" + suffix}
		if fullName != "" {
			profile.FullName = &fullName
		}

		err = s.tx.RunInTx(ctx, func(r repositories.Repos) error {
			if err := r.Accounts.Create(ctx, account); err != nil {
				return err
			}
			profile.AccountID = account.ID
			return r.Profiles.Create(ctx, profile)
		})

		switch {
		case err == nil:
			s.log.Info().Str("account_id", account.ID.String()).Str("slug", profile.Slug).Msg("account registered")
			return account, nil
		case errors.Is(err, repositories.ErrSlugTaken):
			s.log.Warn().Int("attempt", attempt).Str("slug", profile.Slug).Msg("slug collision, retrying")
		case errors.Is(err, repositories.ErrEmailTaken):
			return nil, ErrEmailConflict
		default:
			return nil, fmt.Errorf("failed to register account: %w", err)
		}
	}

	s.log.Error().Str("email", email).Msg("registration failed: no unique slug")
	return nil, ErrRegistrationFailed
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetByEmail returns nil, nil when no account uses the email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, upd AccountUpdate) (*models.Account, error) {
	return s.UpdateWith(ctx, s.accounts, id, upd)
}

// UpdateWith applies upd through repo, which may be bound to the caller's transaction.
func (s *UserService) UpdateWith(ctx context.Context, repo repositories.AccountRepository, id uuid.UUID, upd AccountUpdate) (*models.Account, error) {
	account, err := repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if upd.Email != nil && *upd.Email != "" && *upd.Email != account.Email {
		other, err := repo.GetByEmail(ctx, *upd.Email)
		if err == nil && other.ID != account.ID {
			return nil, ErrEmailConflict
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		account.Email = *upd.Email
	}

	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, ErrValidation.WithDescription(fmt.Sprintf("Unknown role %q", *upd.Role))
		}
		account.Role = *upd.Role
	}

	if upd.IsActive != nil {
		account.IsActive = *upd.IsActive
	}

	err = repo.Update(ctx, account)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, repositories.ErrEmailTaken):
		return nil, ErrEmailConflict
	case err != nil:
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.log.Info().Str("account_id", id.String()).Msg("account updated")
	return account, nil
}

// SoftDelete deactivates the account and records when; the row stays.
func (s *UserService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	err := s.accounts.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.log.Info().Str("account_id", id.String()).Msg("account soft deleted")
	return nil
}
