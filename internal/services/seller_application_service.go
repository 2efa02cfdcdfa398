package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
)

// AccountUpdater promotes applicants inside the review transaction. UserService implements it.
type AccountUpdater interface {
	UpdateWith(ctx context.Context, repo repositories.AccountRepository, id uuid.UUID, upd AccountUpdate) (*models.Account, error)
}

type SellerApplicationService struct {
	apps  repositories.SellerApplicationRepository
	tx    repositories.TxRunner
	users AccountUpdater
	log   *logger.Logger
	now   func() time.Time
}

func NewSellerApplicationService(
	apps repositories.SellerApplicationRepository,
	tx repositories.TxRunner,
	users AccountUpdater,
	log *logger.Logger,
) *SellerApplicationService {
	return &SellerApplicationService{
		apps:  apps,
		tx:    tx,
		users: users,
		log:   log.With("seller_applications"),
		now:   time.Now,
	}
}

func (s *SellerApplicationService) Create(ctx context.Context, accountID uuid.UUID, details string) (*models.SellerApplication, error) {
	_, err := s.apps.GetPendingByApplicant(ctx, accountID)
	if err == nil {
		s.log.Warn().Str("account_id", accountID.String()).Msg("duplicate pending seller application")
		return nil, ErrDuplicatePending
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending applications: %w", err)
	}

	app := &models.SellerApplication{
		ApplicantID: accountID,
		Details:     details,
		Status:      models.ApplicationPending,
	}

	err = s.apps.Create(ctx, app)
	if errors.Is(err, repositories.ErrPendingExists) {
		return nil, ErrDuplicatePending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create seller application: %w", err)
	}

	s.log.Info().Str("application_id", app.ID.String()).Str("account_id", accountID.String()).Msg("seller application created")
	return app, nil
}

// List returns pending applications, newest first.
func (s *SellerApplicationService) List(ctx context.Context, limit, offset *int) ([]*models.SellerApplication, error) {
	apps, err := s.apps.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller applications: %w", err)
	}
	if apps == nil {
		apps = []*models.SellerApplication{}
	}
	return apps, nil
}

func (s *SellerApplicationService) GetByID(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error) {
	app, err := s.apps.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seller application: %w", err)
	}
	return app, nil
}

// Review moves a pending application to approved or rejected. Approval promotes the
// applicant to seller in the same transaction, so a failed promotion undoes the review.
func (s *SellerApplicationService) Review(
	ctx context.Context,
	id, reviewerID uuid.UUID,
	status models.ApplicationStatus,
	notes *string,
) (*models.SellerApplication, error) {
	if status != models.ApplicationApproved && status != models.ApplicationRejected {
		return nil, ErrInvalidStatus
	}

	var reviewed *models.SellerApplication
	err := s.tx.RunInTx(ctx, func(r repositories.Repos) error {
		app, err := r.SellerApplications.GetByIDForUpdate(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrApplicationNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get seller application: %w", err)
		}

		if app.Status != models.ApplicationPending {
			return ErrAlreadyReviewed
		}

		reviewedAt := s.now().UTC()
		app.Status = status
		app.ReviewedBy = &reviewerID
		app.AdminNotes = notes
		app.ReviewedAt = &reviewedAt

		if err := r.SellerApplications.Update(ctx, app); err != nil {
			return fmt.Errorf("failed to update seller application: %w", err)
		}

		if status == models.ApplicationApproved {
			seller := models.RoleSeller
			if _, err := s.users.UpdateWith(ctx, r.Accounts, app.ApplicantID, AccountUpdate{Role: &seller}); err != nil {
				return err
			}
		}

		reviewed = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("application_id", id.String()).
		Str("reviewer_id", reviewerID.String()).
		Str("status", string(status)).
		Msg("seller application reviewed")
	return reviewed, nil
}
