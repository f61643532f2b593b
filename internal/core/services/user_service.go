package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils"
	"github.com/google/uuid"
)

const defaultPreferredCurrency = "USD"

// userService implements user management on top of the user repository.
type userService struct {
	repo repositories.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(repo repositories.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{repo: repo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new local user with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Duplicate checks before the insert give clean errors instead of
	// surfacing database constraint violations.
	if existing, err := s.repo.FindUserByUsername(ctx, username); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("username '%s': %w", username, apperrors.ErrDuplicate)
	}
	if email != "" {
		if existing, err := s.repo.FindUserByEmail(ctx, email); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		} else if existing != nil {
			return nil, fmt.Errorf("email '%s': %w", email, apperrors.ErrDuplicate)
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	preferred := strings.ToUpper(strings.TrimSpace(req.PreferredCurrency))
	if preferred == "" {
		preferred = defaultPreferredCurrency
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:            userID,
		Username:          username,
		Email:             email,
		Name:              req.Name,
		PasswordHash:      passwordHash,
		AuthProvider:      domain.ProviderLocal,
		PreferredCurrency: preferred,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", "error", err, slog.String("username", username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created", slog.String("userID", user.UserID), slog.String("username", username))
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// UpdateUser applies the provided profile fields. When nothing changes the
// stored user is returned untouched and no write happens.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user %s for update: %w", userID, err)
	}

	changed := false
	if req.Name != nil && *req.Name != user.Name {
		user.Name = *req.Name
		changed = true
	}
	if req.PreferredCurrency != nil {
		preferred := strings.ToUpper(strings.TrimSpace(*req.PreferredCurrency))
		if preferred != "" && preferred != user.PreferredCurrency {
			user.PreferredCurrency = preferred
			changed = true
		}
	}

	if !changed {
		return user, nil
	}

	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.repo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", "error", err, slog.String("userID", userID))
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	logger.Info("User updated", slog.String("userID", userID))
	return user, nil
}

// DeleteUser marks a user as deleted.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.repo.MarkUserDeleted(ctx, userID, time.Now().UTC(), requestingUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		logger.Error("Failed to delete user", "error", err, slog.String("userID", userID))
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	logger.Info("User deleted", slog.String("userID", userID), slog.String("deletedBy", requestingUserID))
	return nil
}

// UpdateRefreshToken stores the hash and expiry of a user's refresh token.
func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.repo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token state for a user.
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token for user %s: %w", userID, err)
	}
	return nil
}

// AuthenticateUser verifies local credentials. Both an unknown username and a
// wrong password come back as ErrUnauthorized so responses do not reveal
// which part failed.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}

	if user.AuthProvider != domain.ProviderLocal || user.PasswordHash == "" {
		logger.Warn("Password login attempted for external auth account", slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// FindOrCreateGoogleUser returns the user linked to the Google account,
// creating one on first sign-in. An existing local account with the same
// email is linked to the Google identity instead of duplicated.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.repo.FindUserByProviderID(ctx, domain.ProviderGoogle, info.ID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up Google user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email != "" {
		existing, err := s.repo.FindUserByEmail(ctx, email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
		if existing != nil {
			existing.AuthProvider = domain.ProviderGoogle
			existing.ProviderUserID = info.ID
			existing.LastUpdatedAt = time.Now().UTC()
			existing.LastUpdatedBy = existing.UserID
			if err := s.repo.UpdateUser(ctx, *existing); err != nil {
				return nil, fmt.Errorf("failed to link Google identity: %w", err)
			}
			logger.Info("Linked Google identity to existing account", slog.String("userID", existing.UserID))
			return existing, nil
		}
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	newUser := domain.User{
		UserID:            userID,
		Username:          email,
		Email:             email,
		Name:              info.Name,
		AuthProvider:      domain.ProviderGoogle,
		ProviderUserID:    info.ID,
		PreferredCurrency: defaultPreferredCurrency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.repo.SaveUser(ctx, newUser); err != nil {
		logger.Error("Failed to create Google user", "error", err, slog.String("email", email))
		return nil, fmt.Errorf("failed to create Google user: %w", err)
	}

	logger.Info("User created from Google sign-in", slog.String("userID", newUser.UserID))
	return &newUser, nil
}
