package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/auth"
	"github.com/agentdeck/agentdeck-server/internal/domain"
	domainerrors "github.com/agentdeck/agentdeck-server/internal/errors"
	"github.com/agentdeck/agentdeck-server/internal/id"
	"github.com/agentdeck/agentdeck-server/internal/store"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
	"github.com/agentdeck/agentdeck-server/internal/validation"
)

// AuthService handles registration, login, and refresh-token rotation.
// Access tokens are stateless PASETO; refresh tokens are opaque and backed
// by a session row, stored hashed.
type AuthService struct {
	store     *sqlite.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st *sqlite.Store, tokens *auth.TokenService, v *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{store: st, tokens: tokens, validator: v, logger: logger}
}

// TokenPair is the credential set returned by register, login, and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthResult bundles the authenticated user with their tokens.
type AuthResult struct {
	User   *domain.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// Register creates a new account and opens a session.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domainerrors.Validation("MISSING_EMAIL", "email is required")
	}
	if err := s.validator.Var(email, "email"); err != nil {
		return nil, domainerrors.Validation("INVALID_EMAIL", "email is not valid")
	}
	if len(password) < 8 {
		return nil, domainerrors.Validation("INVALID_PASSWORD", "password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := nowUTC()
	user := &domain.User{
		ID:           id.MustGenerate("usr"),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err == store.ErrAlreadyExists {
		return nil, domainerrors.AlreadyExists("EMAIL_TAKEN", "an account with this email already exists")
	} else if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords return the same error so the endpoint does not leak which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err == store.ErrNotFound {
		return nil, domainerrors.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	} else if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh rotates a refresh token: the presented session is deleted and a
// new one is opened, so a refresh token is single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, domainerrors.Unauthorized("INVALID_REFRESH_TOKEN", "refresh token is required")
	}

	sess, err := s.store.GetSessionByToken(ctx, auth.HashRefreshToken(refreshToken))
	if err == store.ErrNotFound {
		return nil, domainerrors.Unauthorized("INVALID_REFRESH_TOKEN", "refresh token is not valid")
	} else if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.Expired(nowUTC()) {
		if err := s.store.DeleteSession(ctx, sess.ID); err != nil && err != store.ErrNotFound {
			s.logger.Warn("failed to delete expired session", "session_id", sess.ID, "error", err)
		}
		return nil, domainerrors.Unauthorized("INVALID_REFRESH_TOKEN", "refresh token has expired")
	}

	user, err := s.store.GetUser(ctx, sess.UserID)
	if err == store.ErrNotFound {
		return nil, domainerrors.Unauthorized("INVALID_REFRESH_TOKEN", "refresh token is not valid")
	} else if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.store.DeleteSession(ctx, sess.ID); err != nil && err != store.ErrNotFound {
		return nil, fmt.Errorf("delete session: %w", err)
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Logout ends the session behind a refresh token. Unknown tokens are a
// no-op so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	sess, err := s.store.GetSessionByToken(ctx, auth.HashRefreshToken(refreshToken))
	if err == store.ErrNotFound {
		return nil
	} else if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if err := s.store.DeleteSession(ctx, sess.ID); err != nil && err != store.ErrNotFound {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes sessions past their expiry and returns the
// number removed. Run periodically from the server's background loop.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, nowUTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("cleaned up expired sessions", "count", n)
	}
	return n, nil
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, domainerrors.NotFound("USER_NOT_FOUND", "user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// VerifyAccessToken validates a bearer token and returns its claims.
func (s *AuthService) VerifyAccessToken(token string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("UNAUTHORIZED", "invalid or expired access token")
	}
	return claims, nil
}

// openSession issues a token pair and persists the refresh session.
func (s *AuthService) openSession(ctx context.Context, user *domain.User) (TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}

	now := nowUTC()
	sess := &domain.Session{
		ID:        id.MustGenerate("ses"),
		UserID:    user.ID,
		Token:     auth.HashRefreshToken(refresh),
		ExpiresAt: now.Add(s.tokens.RefreshTokenDuration()),
		CreatedAt: now,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return TokenPair{}, fmt.Errorf("create session: %w", err)
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}
