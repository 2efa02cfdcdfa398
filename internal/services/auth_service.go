package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/models"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
	"github.com/prudhvinik1/fastcarsales/internal/utils"
)

const RefreshCookieName = "refresh_token"

// AccountReader is the part of UserService the auth flow needs.
type AccountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

type AuthService struct {
	accounts     AccountReader
	refresh      repositories.RefreshTokenRepository
	tokens       *TokenManager
	cookieSecure bool
	log          *logger.Logger
}

func NewAuthService(
	accounts AccountReader,
	refresh repositories.RefreshTokenRepository,
	tokens *TokenManager,
	cookieSecure bool,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		accounts:     accounts,
		refresh:      refresh,
		tokens:       tokens,
		cookieSecure: cookieSecure,
		log:          log.With("auth"),
	}
}

// Authenticate checks the password before the active flag so the inactive
// state is only revealed to someone who knows the password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.log.Warn().Str("email", email).Msg("login attempt with unknown email")
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPassword(account.PasswordHash, password) {
		s.log.Warn().Str("email", email).Msg("login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		s.log.Warn().Str("email", email).Msg("login attempt on inactive account")
		return nil, ErrInactiveAccount
	}

	s.log.Info().Str("account_id", account.ID.String()).Msg("account authenticated")
	return account, nil
}

// IssueTokens rotates the account's refresh token, sets it as a cookie on w
// and returns a fresh access token.
func (s *AuthService) IssueTokens(ctx context.Context, w http.ResponseWriter, accountID uuid.UUID) (string, error) {
	accessToken, err := s.tokens.GenerateAccessToken(accountID)
	if err != nil {
		return "", err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(accountID)
	if err != nil {
		return "", err
	}

	if err := s.refresh.Set(ctx, accountID, refreshToken, s.tokens.RefreshTTL()); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	http.SetCookie(w, s.refreshCookie(refreshToken, int(s.tokens.RefreshTTL().Seconds())))
	return accessToken, nil
}

// ValidateRefreshToken accepts only the most recently issued refresh token of an active account.
func (s *AuthService) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	accountID, err := s.tokens.Parse(token, tokenTypeRefresh)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh token rejected")
		return uuid.Nil, ErrTokenInvalid
	}

	stored, err := s.refresh.Get(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return uuid.Nil, ErrTokenRevoked
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		s.log.Warn().Str("account_id", accountID.String()).Msg("superseded refresh token presented")
		return uuid.Nil, ErrTokenRevoked
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return uuid.Nil, ErrTokenInvalid
		}
		return uuid.Nil, err
	}
	if !account.IsActive {
		return uuid.Nil, ErrTokenInvalid
	}

	return accountID, nil
}

// AuthenticateAccessToken resolves a bearer token to an active account.
func (s *AuthService) AuthenticateAccessToken(ctx context.Context, token string) (*models.Account, error) {
	accountID, err := s.tokens.Parse(token, tokenTypeAccess)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrTokenInvalid
	}
	return account, nil
}

// Logout clears the cookie and forgets the refresh token.
func (s *AuthService) Logout(ctx context.Context, w http.ResponseWriter, accountID uuid.UUID) error {
	s.log.Info().Str("account_id", accountID.String()).Msg("logging out")
	http.SetCookie(w, s.refreshCookie("", -1))

	err := s.refresh.Delete(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.Warn().Str("account_id", accountID.String()).Msg("no refresh token in cache")
		return ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) refreshCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Authorize allows role when it is one of allowed.
func Authorize(role models.Role, allowed ...models.Role) error {
	if slices.Contains(allowed, role) {
		return nil
	}
	return ErrForbidden
}
