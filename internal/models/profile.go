package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public face of an account. Slug doubles as the username in URLs.
type Profile struct {
	ID              int64     `json:"-"`
	AccountID       uuid.UUID `json:"-"`
	Slug            string    `json:"username"`
	FullName        *string   `json:"full_name,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	City            *string   `json:"city,omitempty"`
	State           *string   `json:"state,omitempty"`
	Country         *string   `json:"country,omitempty"`
	PictureFilename *string   `json:"picture_filename,omitempty"`
	PictureMIME     *string   `json:"picture_mime,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p *Profile) HasPicture() bool {
	return p.PictureFilename != nil && *p.PictureFilename != ""
}
