package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dc4ndre/ecommerce-website/config"
	"github.com/dc4ndre/ecommerce-website/internal/models"
	"github.com/dc4ndre/ecommerce-website/internal/redisclient"
	"github.com/dc4ndre/ecommerce-website/internal/state"
	"github.com/dc4ndre/ecommerce-website/internal/store"
	"github.com/dc4ndre/ecommerce-website/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned when login fails to match a user.
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	// ErrUserExists is returned when registering a taken username or email.
	ErrUserExists = errors.New("username or email already exists")
	// ErrWeakPassword is returned when a password is shorter than 6 characters.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrWrongPassword is returned when the current password check fails.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrUsernameTaken is returned when renaming to an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// AuthService handles accounts and login sessions. Tokens live in Redis
// with a TTL; per-user in-memory state is attached to the SessionStore on
// login and released on logout.
type AuthService struct {
	store    *store.Store
	redis    *redisclient.Client
	sessions *state.SessionStore
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, redis *redisclient.Client, sessions *state.SessionStore, cfg config.SessionConfig) *AuthService {
	return &AuthService{
		store:    st,
		redis:    redis,
		sessions: sessions,
		cfg:      cfg,
		logger:   util.GetLogger(),
	}
}

// HashPassword hashes a password with SHA-256, matching the stored format.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates a new customer account
func (a *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	exists, err := a.store.UserExists(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: HashPassword(password),
		Role:         models.RoleCustomer,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", username))
	return user, nil
}

// Login verifies credentials, issues a session token, and initializes the
// user's in-memory browsing history and cart.
func (a *AuthService) Login(ctx context.Context, login, password string) (token string, user *models.User, err error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err = a.store.GetUserByCredentials(ctx, login, HashPassword(password))
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	token = uuid.New().String()
	data := redisclient.SessionData{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if err := a.redis.StoreSession(ctx, token, data, a.cfg.TokenTTL); err != nil {
		return "", nil, fmt.Errorf("failed to store session token: %w", err)
	}

	// Rehydrate the session cart from the persisted rows so the mirror
	// matches what the user left behind.
	_, cart := a.sessions.Acquire(user.ID)
	if rows, err := a.store.GetCartItems(ctx, user.ID); err == nil {
		cart.Clear()
		for _, row := range rows {
			_ = cart.Push(row.ProductID, row.Quantity)
		}
	}

	a.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role))
	return token, user, nil
}

// Authenticate resolves a session token. The second return value is false
// when the token is unknown or expired. A hit slides the token's expiry
// forward.
func (a *AuthService) Authenticate(ctx context.Context, token string) (redisclient.SessionData, bool, error) {
	data, found, err := a.redis.GetSession(ctx, token)
	if err != nil || !found {
		return data, found, err
	}
	if err := a.redis.RefreshSession(ctx, token, a.cfg.TokenTTL); err != nil {
		a.logger.Warn("Failed to refresh session TTL", zap.Error(err))
	}
	return data, true, nil
}

// Logout invalidates the token and releases the user's in-memory state
func (a *AuthService) Logout(ctx context.Context, token string, userID int64) error {
	ctx, span := util.StartSpan(ctx, "AuthService.Logout")
	defer span.End()

	if err := a.redis.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	a.sessions.Release(userID)

	a.logger.Info("User logged out", zap.Int64("user_id", userID))
	return nil
}

// GetAccount retrieves the user's own account details
func (a *AuthService) GetAccount(ctx context.Context, userID int64) (*models.User, error) {
	return a.store.GetUserByID(ctx, userID)
}

// UpdateAccount changes the username and optionally the password after
// verifying the current password.
func (a *AuthService) UpdateAccount(ctx context.Context, token string, userID int64, newUsername, currentPassword, newPassword string) error {
	ctx, span := util.StartSpan(ctx, "AuthService.UpdateAccount")
	defer span.End()

	ok, err := a.store.VerifyPassword(ctx, userID, HashPassword(currentPassword))
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrWrongPassword
	}

	taken, err := a.store.UsernameTaken(ctx, newUsername, userID)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return ErrUsernameTaken
	}

	if err := a.store.UpdateUsername(ctx, userID, newUsername); err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}

	if newPassword != "" {
		if len(newPassword) < 6 {
			return ErrWeakPassword
		}
		if err := a.store.UpdatePassword(ctx, userID, HashPassword(newPassword)); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
	}

	if err := a.redis.UpdateSessionUsername(ctx, token, newUsername); err != nil {
		a.logger.Warn("Failed to refresh session username", zap.Error(err))
	}

	a.logger.Info("Account updated", zap.Int64("user_id", userID))
	return nil
}
