package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
)

// ImageStorage is implemented by StorageService.
type ImageStorage interface {
	UploadImage(ctx context.Context, data []byte) (mime, objectName string, err error)
	GetPresignedURL(ctx context.Context, name string) (string, error)
	DeleteFile(ctx context.Context, name string) error
}

// ProfileUpdate carries the editable profile fields. Nil or empty values are ignored.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	City     *string
	State    *string
	Country  *string
}

type ProfileService struct {
	profiles repositories.ProfileRepository
	storage  ImageStorage
	log      *logger.Logger
}

func NewProfileService(profiles repositories.ProfileRepository, storage ImageStorage, log *logger.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		storage:  storage,
		log:      log.With("profiles"),
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByAccountID(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, accountID uuid.UUID, upd ProfileUpdate) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	applied := 0
	apply := func(dst **string, v *string) {
		if v != nil && *v != "" {
			*dst = v
			applied++
		}
	}
	apply(&profile.FullName, upd.FullName)
	apply(&profile.Phone, upd.Phone)
	apply(&profile.City, upd.City)
	apply(&profile.State, upd.State)
	apply(&profile.Country, upd.Country)

	if applied == 0 {
		return nil, ErrNoFieldsProvided
	}

	if err := s.save(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", accountID.String()).Int("fields", applied).Msg("profile updated")
	return profile, nil
}

// UploadPicture replaces the profile picture and returns a presigned URL for the new one.
// The old object is removed before the new one is stored.
func (s *ProfileService) UploadPicture(ctx context.Context, accountID uuid.UUID, data []byte) (string, error) {
	profile, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return "", err
	}

	hadPicture := profile.HasPicture()
	if hadPicture {
		err := s.storage.DeleteFile(ctx, *profile.PictureFilename)
		if errors.Is(err, ErrFileNotFound) {
			s.log.Warn().Str("object", *profile.PictureFilename).Msg("previous picture already missing")
		} else if err != nil {
			return "", fmt.Errorf("failed to delete previous picture: %w", err)
		}
	}

	mime, objectName, err := s.storage.UploadImage(ctx, data)
	if err != nil {
		if hadPicture {
			s.clearPicture(ctx, profile)
		}
		return "", err
	}

	profile.PictureFilename = &objectName
	profile.PictureMIME = &mime
	if err := s.save(ctx, profile); err != nil {
		if delErr := s.storage.DeleteFile(ctx, objectName); delErr != nil {
			s.log.Error().Err(delErr).Str("object", objectName).Msg("failed to remove orphaned picture")
		}
		return "", err
	}

	s.log.Info().Str("account_id", accountID.String()).Str("object", objectName).Msg("profile picture replaced")
	return s.storage.GetPresignedURL(ctx, objectName)
}

// clearPicture drops a reference to an object that no longer exists.
func (s *ProfileService) clearPicture(ctx context.Context, profile *models.Profile) {
	profile.PictureFilename = nil
	profile.PictureMIME = nil
	if err := s.save(ctx, profile); err != nil {
		s.log.Error().Err(err).Int64("profile_id", profile.ID).Msg("failed to clear stale picture reference")
	}
}

func (s *ProfileService) save(ctx context.Context, profile *models.Profile) error {
	err := s.profiles.Update(ctx, profile)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
