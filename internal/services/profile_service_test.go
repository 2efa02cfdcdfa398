package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/mocks"
	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
)

func strPtr(s string) *string { return &s }

type profileFixture struct {
	svc      *ProfileService
	profiles *mocks.ProfileRepository
	storage  *mocks.ImageStorage
}

func newProfileFixture() *profileFixture {
	profiles := &mocks.ProfileRepository{}
	storage := &mocks.ImageStorage{}
	return &profileFixture{
		svc:      NewProfileService(profiles, storage, logger.Nop()),
		profiles: profiles,
		storage:  storage,
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	f := newProfileFixture()
	f.profiles.On("GetByAccountID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)

	_, err := f.svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateProfile(t *testing.T) {
	accountID := uuid.New()

	t.Run("applies provided fields only", func(t *testing.T) {
		f := newProfileFixture()
		profile := &models.Profile{ID: 1, AccountID: accountID, Slug: "jane-doe-1234abcd", City: strPtr("Lisbon")}
		f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(profile, nil)
		f.profiles.On("Update", mock.Anything, profile).Return(nil)

		got, err := f.svc.UpdateProfile(context.Background(), accountID, ProfileUpdate{
			Phone: strPtr("+351 900"),
			City:  strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "+351 900", *got.Phone)
		assert.Equal(t, "Lisbon", *got.City, "Empty strings are dropped")
		assert.Nil(t, got.Country)
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newProfileFixture()
		f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(&models.Profile{ID: 1}, nil)

		_, err := f.svc.UpdateProfile(context.Background(), accountID, ProfileUpdate{FullName: strPtr("")})
		assert.ErrorIs(t, err, ErrNoFieldsProvided)
		f.profiles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("no profile", func(t *testing.T) {
		f := newProfileFixture()
		f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(nil, repositories.ErrNotFound)

		_, err := f.svc.UpdateProfile(context.Background(), accountID, ProfileUpdate{City: strPtr("Porto")})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestUploadPicture_First(t *testing.T) {
	f := newProfileFixture()
	accountID := uuid.New()
	profile := &models.Profile{ID: 1, AccountID: accountID}
	data := []byte("png bytes")

	f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(profile, nil)
	f.storage.On("UploadImage", mock.Anything, data).Return("image/png", "new.png", nil)
	f.profiles.On("Update", mock.Anything, profile).Return(nil)
	f.storage.On("GetPresignedURL", mock.Anything, "new.png").Return("https://cdn/new.png", nil)

	url, err := f.svc.UploadPicture(context.Background(), accountID, data)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", url)
	assert.Equal(t, "new.png", *profile.PictureFilename)
	assert.Equal(t, "image/png", *profile.PictureMIME)
	f.storage.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)
}

func TestUploadPicture_ReplacesOld(t *testing.T) {
	f := newProfileFixture()
	accountID := uuid.New()
	profile := &models.Profile{ID: 1, AccountID: accountID, PictureFilename: strPtr("old.png"), PictureMIME: strPtr("image/png")}

	f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(profile, nil)
	f.storage.On("DeleteFile", mock.Anything, "old.png").Return(nil)
	f.storage.On("UploadImage", mock.Anything, mock.Anything).Return("image/jpeg", "new.jpg", nil)
	f.profiles.On("Update", mock.Anything, profile).Return(nil)
	f.storage.On("GetPresignedURL", mock.Anything, "new.jpg").Return("https://cdn/new.jpg", nil)

	_, err := f.svc.UploadPicture(context.Background(), accountID, []byte("jpeg bytes"))
	require.NoError(t, err)
	f.storage.AssertCalled(t, "DeleteFile", mock.Anything, "old.png")
	assert.Equal(t, "new.jpg", *profile.PictureFilename)
}

func TestUploadPicture_OldAlreadyMissing(t *testing.T) {
	f := newProfileFixture()
	accountID := uuid.New()
	profile := &models.Profile{ID: 1, AccountID: accountID, PictureFilename: strPtr("old.png")}

	f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(profile, nil)
	f.storage.On("DeleteFile", mock.Anything, "old.png").Return(ErrFileNotFound.WithDescription("File old.png does not exist"))
	f.storage.On("UploadImage", mock.Anything, mock.Anything).Return("image/png", "new.png", nil)
	f.profiles.On("Update", mock.Anything, profile).Return(nil)
	f.storage.On("GetPresignedURL", mock.Anything, "new.png").Return("https://cdn/new.png", nil)

	_, err := f.svc.UploadPicture(context.Background(), accountID, []byte("png bytes"))
	require.NoError(t, err)
}

func TestUploadPicture_FailedUploadClearsStaleReference(t *testing.T) {
	f := newProfileFixture()
	accountID := uuid.New()
	profile := &models.Profile{ID: 1, AccountID: accountID, PictureFilename: strPtr("old.png"), PictureMIME: strPtr("image/png")}

	f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(profile, nil)
	f.storage.On("DeleteFile", mock.Anything, "old.png").Return(nil)
	f.storage.On("UploadImage", mock.Anything, mock.Anything).Return("", "", ErrInvalidImage)
	f.profiles.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.PictureFilename == nil && p.PictureMIME == nil
	})).Return(nil)

	_, err := f.svc.UploadPicture(context.Background(), accountID, []byte("junk"))
	assert.ErrorIs(t, err, ErrInvalidImage)
	f.profiles.AssertNumberOfCalls(t, "Update", 1)
}

func TestUploadPicture_FailedUploadWithoutOldPicture(t *testing.T) {
	f := newProfileFixture()
	accountID := uuid.New()
	f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(&models.Profile{ID: 1}, nil)
	f.storage.On("UploadImage", mock.Anything, mock.Anything).Return("", "", ErrEmptyFile)

	_, err := f.svc.UploadPicture(context.Background(), accountID, nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
	f.profiles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUploadPicture_DeleteFailureAborts(t *testing.T) {
	f := newProfileFixture()
	accountID := uuid.New()
	f.profiles.On("GetByAccountID", mock.Anything, accountID).Return(&models.Profile{ID: 1, PictureFilename: strPtr("old.png")}, nil)
	f.storage.On("DeleteFile", mock.Anything, "old.png").Return(errors.New("minio timeout"))

	_, err := f.svc.UploadPicture(context.Background(), accountID, []byte("png"))
	require.Error(t, err)
	f.storage.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)
}

func TestUploadPicture_NoProfile(t *testing.T) {
	f := newProfileFixture()
	f.profiles.On("GetByAccountID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)

	_, err := f.svc.UploadPicture(context.Background(), uuid.New(), []byte("png"))
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
