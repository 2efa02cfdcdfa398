package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prudhvinik1/fastcarsales/internal/models"
)

const applicationColumns = `id, applicant_id, details, status::text, reviewed_by, admin_notes,
	                 reviewed_at, created_at, updated_at`

var _ SellerApplicationRepository = (*PostgresSellerApplicationRepository)(nil)

type PostgresSellerApplicationRepository struct {
	db DBTX
}

func NewPostgresSellerApplicationRepository(db DBTX) *PostgresSellerApplicationRepository {
	return &PostgresSellerApplicationRepository{db: db}
}

func (r *PostgresSellerApplicationRepository) Create(ctx context.Context, app *models.SellerApplication) error {
	query := `INSERT INTO seller_applications (applicant_id, details, status)
	          VALUES ($1, $2, $3::text::seller_application_status)
	          RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, app.ApplicantID, app.Details, string(app.Status)).
		Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if uniqueConstraint(err) == constraintOnePending {
			return ErrPendingExists
		}
		return fmt.Errorf("failed to create seller application: %w", err)
	}
	return nil
}

func (r *PostgresSellerApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM seller_applications WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresSellerApplicationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.SellerApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM seller_applications WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *PostgresSellerApplicationRepository) GetPendingByApplicant(ctx context.Context, applicantID uuid.UUID) (*models.SellerApplication, error) {
	query := `SELECT ` + applicationColumns + `
	          FROM seller_applications
	          WHERE applicant_id = $1 AND status = 'pending'
	          LIMIT 1`
	return r.getOne(ctx, query, applicantID)
}

// ListPending returns pending applications newest first. Nil limit or offset means unbounded.
func (r *PostgresSellerApplicationRepository) ListPending(ctx context.Context, limit, offset *int) ([]*models.SellerApplication, error) {
	query := `SELECT ` + applicationColumns + `
	          FROM seller_applications
	          WHERE status = 'pending'
	          ORDER BY created_at DESC
	          LIMIT $1 OFFSET $2`

	// A NULL limit is LIMIT ALL in Postgres.
	var off int
	if offset != nil {
		off = *offset
	}

	rows, err := r.db.Query(ctx, query, limit, off)
	if err != nil {
		return nil, fmt.Errorf("failed to query seller applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.SellerApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seller application: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seller applications: %w", err)
	}

	return apps, nil
}

func (r *PostgresSellerApplicationRepository) Update(ctx context.Context, app *models.SellerApplication) error {
	query := `UPDATE seller_applications
	          SET status = $1::text::seller_application_status, reviewed_by = $2, admin_notes = $3,
	              reviewed_at = $4, details = $5, updated_at = NOW()
	          WHERE id = $6
	          RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		string(app.Status),
		app.ReviewedBy,
		app.AdminNotes,
		app.ReviewedAt,
		app.Details,
		app.ID,
	).Scan(&app.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update seller application: %w", err)
	}
	return nil
}

func (r *PostgresSellerApplicationRepository) getOne(ctx context.Context, query string, arg any) (*models.SellerApplication, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seller application: %w", err)
	}
	return app, nil
}

func scanApplication(row pgx.Row) (*models.SellerApplication, error) {
	var app models.SellerApplication
	var applicantID *uuid.UUID
	err := row.Scan(
		&app.ID,
		&applicantID,
		&app.Details,
		&app.Status,
		&app.ReviewedBy,
		&app.AdminNotes,
		&app.ReviewedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if applicantID != nil {
		app.ApplicantID = *applicantID
	}
	return &app, nil
}
