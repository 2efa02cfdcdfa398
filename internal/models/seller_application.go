package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

type SellerApplication struct {
	ID          uuid.UUID         `json:"id"`
	ApplicantID uuid.UUID         `json:"user_id"`
	Details     string            `json:"details"`
	Status      ApplicationStatus `json:"status"`
	ReviewedBy  *uuid.UUID        `json:"reviewed_by"`
	AdminNotes  *string           `json:"admin_notes"`
	ReviewedAt  *time.Time        `json:"reviewed_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
