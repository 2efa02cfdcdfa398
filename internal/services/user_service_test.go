package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/mocks"
	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
	"github.com/prudhvinik1/fastcarsales/internal/utils"
)

type userFixture struct {
	svc      *UserService
	accounts *mocks.AccountRepository
	profiles *mocks.ProfileRepository
	tx       *mocks.TxRunner
}

func newUserFixture() *userFixture {
	accounts := &mocks.AccountRepository{}
	profiles := &mocks.ProfileRepository{}
	tx := &mocks.TxRunner{Repos: repositories.Repos{Accounts: accounts, Profiles: profiles}}

	return &userFixture{
		svc:      NewUserService(accounts, tx, bcrypt.MinCost, logger.Nop()),
		accounts: accounts,
		profiles: profiles,
		tx:       tx,
	}
}

func (f *userFixture) expectAccountCreate() {
	f.accounts.On("Create", mock.Anything, mock.AnythingOfType("*models.Account")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Account).ID = uuid.New() }).
		Return(nil)
}

func TestRegister_Success(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repositories.ErrNotFound)
	f.expectAccountCreate()

	var profile *models.Profile
	f.profiles.On("Create", mock.Anything, mock.AnythingOfType("*models.Profile")).
		Run(func(args mock.Arguments) { profile = args.Get(1).(*models.Profile) }).
		Return(nil)

	account, err := f.svc.Register(context.Background(), "a@x.com", "longenough1", "Jane Doe")
	require.NoError(t, err)

	assert.Equal(t, models.RoleBuyer, account.Role)
	assert.True(t, account.IsActive)
	assert.True(t, utils.CheckPassword(account.PasswordHash, "longenough1"))
	assert.NotEqual(t, "longenough1", account.PasswordHash)

	require.NotNil(t, profile)
	assert.Equal(t, account.ID, profile.AccountID)
	assert.Regexp(t, `^jane-doe-[0-9a-f]{8}$`, profile.Slug)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Jane Doe", *profile.FullName)
	assert.Equal(t, 1, f.tx.Committed)
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repositories.ErrNotFound)

	// 40 two-byte runes: within a character limit of 128 but 80 bytes long.
	password := strings.Repeat("é", 40)
	_, err := f.svc.Register(context.Background(), "a@x.com", password, "Jane Doe")

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Contains(t, appErr.Description, "72 bytes")
	assert.Zero(t, f.tx.Calls)

	_, err = f.svc.Register(context.Background(), "a@x.com", strings.Repeat("a", 100), "Jane Doe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegister_EmailExists(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "a@x.com").Return(&models.Account{ID: uuid.New()}, nil)

	_, err := f.svc.Register(context.Background(), "a@x.com", "longenough1", "Jane Doe")
	assert.ErrorIs(t, err, ErrEmailConflict)
	assert.Zero(t, f.tx.Calls, "No transaction should start for a taken email")
}

func TestRegister_EmailRace(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repositories.ErrNotFound)
	f.accounts.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrEmailTaken)

	_, err := f.svc.Register(context.Background(), "a@x.com", "longenough1", "Jane Doe")
	assert.ErrorIs(t, err, ErrEmailConflict)
	assert.Equal(t, 1, f.tx.Calls)
	assert.Zero(t, f.tx.Committed)
}

func TestRegister_RetriesSlugCollision(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repositories.ErrNotFound)
	f.expectAccountCreate()

	var slugs []string
	record := func(args mock.Arguments) { slugs = append(slugs, args.Get(1).(*models.Profile).Slug) }
	f.profiles.On("Create", mock.Anything, mock.Anything).Run(record).Return(repositories.ErrSlugTaken).Twice()
	f.profiles.On("Create", mock.Anything, mock.Anything).Run(record).Return(nil).Once()

	n := 0
	f.svc.newSuffix = func() (string, error) {
		n++
		return fmt.Sprintf("%08x", n), nil
	}

	_, err := f.svc.Register(context.Background(), "a@x.com", "longenough1", "Jane Doe")
	require.NoError(t, err)

	assert.Equal(t, 3, f.tx.Calls, "Each attempt runs in its own transaction")
	assert.Equal(t, 1, f.tx.Committed)
	assert.Equal(t, []string{"jane-doe-00000001", "jane-doe-00000002", "jane-doe-00000003"}, slugs)
}

func TestRegister_GivesUpAfterFiveAttempts(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repositories.ErrNotFound)
	f.expectAccountCreate()
	f.profiles.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrSlugTaken)

	_, err := f.svc.Register(context.Background(), "a@x.com", "longenough1", "Jane Doe")
	assert.ErrorIs(t, err, ErrRegistrationFailed)
	assert.Equal(t, maxSlugAttempts, f.tx.Calls)
	assert.Zero(t, f.tx.Committed)
}

func TestRegister_UnsluggableName(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repositories.ErrNotFound)
	f.expectAccountCreate()

	var profile *models.Profile
	f.profiles.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { profile = args.Get(1).(*models.Profile) }).
		Return(nil)

	_, err := f.svc.Register(context.Background(), "a@x.com", "longenough1", "???")
	require.NoError(t, err)
	assert.Regexp(t, `^user-[0-9a-f]{8}$`, profile.Slug)
}

func TestGetByID(t *testing.T) {
	f := newUserFixture()
	id := uuid.New()
	f.accounts.On("GetByID", mock.Anything, id).Return(&models.Account{ID: id}, nil)
	f.accounts.On("GetByID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)

	got, err := f.svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = f.svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByEmail_MissIsNotAnError(t *testing.T) {
	f := newUserFixture()
	f.accounts.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, repositories.ErrNotFound)

	got, err := f.svc.GetByEmail(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate(t *testing.T) {
	id := uuid.New()
	newAccount := func() *models.Account {
		return &models.Account{ID: id, Email: "a@x.com", Role: models.RoleBuyer, IsActive: true}
	}

	t.Run("partial", func(t *testing.T) {
		f := newUserFixture()
		f.accounts.On("GetByID", mock.Anything, id).Return(newAccount(), nil)
		f.accounts.On("Update", mock.Anything, mock.Anything).Return(nil)

		seller := models.RoleSeller
		got, err := f.svc.Update(context.Background(), id, AccountUpdate{Role: &seller})
		require.NoError(t, err)
		assert.Equal(t, models.RoleSeller, got.Role)
		assert.Equal(t, "a@x.com", got.Email, "Absent fields stay unchanged")
		assert.True(t, got.IsActive)
	})

	t.Run("email taken by another account", func(t *testing.T) {
		f := newUserFixture()
		f.accounts.On("GetByID", mock.Anything, id).Return(newAccount(), nil)
		f.accounts.On("GetByEmail", mock.Anything, "b@x.com").Return(&models.Account{ID: uuid.New()}, nil)

		email := "b@x.com"
		_, err := f.svc.Update(context.Background(), id, AccountUpdate{Email: &email})
		assert.ErrorIs(t, err, ErrEmailConflict)
		f.accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("new email", func(t *testing.T) {
		f := newUserFixture()
		f.accounts.On("GetByID", mock.Anything, id).Return(newAccount(), nil)
		f.accounts.On("GetByEmail", mock.Anything, "b@x.com").Return(nil, repositories.ErrNotFound)
		f.accounts.On("Update", mock.Anything, mock.Anything).Return(nil)

		email := "b@x.com"
		inactive := false
		got, err := f.svc.Update(context.Background(), id, AccountUpdate{Email: &email, IsActive: &inactive})
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", got.Email)
		assert.False(t, got.IsActive)
	})

	t.Run("unknown role", func(t *testing.T) {
		f := newUserFixture()
		f.accounts.On("GetByID", mock.Anything, id).Return(newAccount(), nil)

		role := models.Role("owner")
		_, err := f.svc.Update(context.Background(), id, AccountUpdate{Role: &role})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("not found", func(t *testing.T) {
		f := newUserFixture()
		f.accounts.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		_, err := f.svc.Update(context.Background(), id, AccountUpdate{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSoftDelete(t *testing.T) {
	f := newUserFixture()
	id := uuid.New()
	f.accounts.On("Delete", mock.Anything, id).Return(nil).Once()
	f.accounts.On("Delete", mock.Anything, id).Return(repositories.ErrNotFound)

	require.NoError(t, f.svc.SoftDelete(context.Background(), id))
	assert.ErrorIs(t, f.svc.SoftDelete(context.Background(), id), ErrUserNotFound)

	f.accounts.On("Delete", mock.Anything, mock.Anything).Return(errors.New("boom"))
	err := f.svc.SoftDelete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
