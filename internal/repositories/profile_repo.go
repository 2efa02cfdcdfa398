package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prudhvinik1/fastcarsales/internal/models"
)

var _ ProfileRepository = (*PostgresProfileRepository)(nil)

type PostgresProfileRepository struct {
	db DBTX
}

func NewPostgresProfileRepository(db DBTX) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `INSERT INTO profiles (account_id, slug, full_name)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, profile.AccountID, profile.Slug, profile.FullName).
		Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if uniqueConstraint(err) == constraintProfileSlug {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	query := `SELECT id, account_id, slug, full_name, phone, city, state, country,
	                 picture_filename, picture_mime, created_at, updated_at
	          FROM profiles
	          WHERE account_id = $1`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&profile.ID,
		&profile.AccountID,
		&profile.Slug,
		&profile.FullName,
		&profile.Phone,
		&profile.City,
		&profile.State,
		&profile.Country,
		&profile.PictureFilename,
		&profile.PictureMIME,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `UPDATE profiles
	          SET full_name = $1, phone = $2, city = $3, state = $4, country = $5,
	              picture_filename = $6, picture_mime = $7, updated_at = NOW()
	          WHERE id = $8
	          RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		profile.FullName,
		profile.Phone,
		profile.City,
		profile.State,
		profile.Country,
		profile.PictureFilename,
		profile.PictureMIME,
		profile.ID,
	).Scan(&profile.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
