package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already taken")
	ErrSlugTaken     = errors.New("slug already taken")
	ErrPendingExists = errors.New("pending application already exists")
)

const uniqueViolation = "23505"

const (
	constraintAccountEmail = "accounts_email_key"
	constraintProfileSlug  = "profiles_slug_key"
	constraintOnePending   = "seller_applications_one_pending"
)

// uniqueConstraint returns the violated constraint name, or "" when err is not a unique violation.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
