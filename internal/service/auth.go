package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
	"cheque-ledger-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is lowered in tests.
var passwordHashCost = bcrypt.DefaultCost

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	revoked  security.RevocationStore
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, revoked security.RevocationStore) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		revoked:  revoked,
	}
}

func hashPassword(password string) (string, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, *security.UserClaims, error) {
	logger.EnterMethod("authService.Login", "username", username)

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		logger.WarnContext(ctx, "Login failed: unknown user", "username", username)
		return nil, "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err)
		return nil, "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.WarnContext(ctx, "Login failed: bad password", "userID", user.ID)
		return nil, "", nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		logger.WarnContext(ctx, "Login refused for deactivated user", "userID", user.ID)
		return nil, "", nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.GenerateSessionToken(user)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err)
		return nil, "", nil, err
	}

	logger.ExitMethod("authService.Login", "userID", user.ID, "role", user.Role)
	return user, token, claims, nil
}

func (s *authService) Logout(ctx context.Context, claims *security.UserClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.ExpiresIn()
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		logger.ErrorContext(ctx, "Failed to revoke session", "userID", claims.UserID, "error", err)
		return err
	}
	logger.InfoContext(ctx, "Session revoked", "userID", claims.UserID)
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*security.UserClaims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Revocation lookup failed", "error", err)
		return nil, fmt.Errorf("%w: session store unavailable", domain.ErrUnauthorized)
	}
	if revoked {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, security.ErrRevokedToken)
	}
	cutoff, err := s.revoked.UserCutoff(ctx, claims.UserID)
	if err != nil {
		logger.ErrorContext(ctx, "Session cutoff lookup failed", "userID", claims.UserID, "error", err)
		return nil, fmt.Errorf("%w: session store unavailable", domain.ErrUnauthorized)
	}
	if cutoff.Covers(claims) {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, security.ErrRevokedToken)
	}

	// Role and active flag may have changed since the token was issued.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.ErrorContext(ctx, "User lookup failed during authentication", "userID", claims.UserID, "error", err)
		}
		return nil, fmt.Errorf("%w: user unavailable", domain.ErrUnauthorized)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: user deactivated", domain.ErrUnauthorized)
	}
	claims.Role = user.Role
	claims.Username = user.Username
	return claims, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword replaces the caller's password and signs out every other
// session of the user. The session making the change stays valid.
func (s *authService) ChangePassword(ctx context.Context, claims *security.UserClaims, currentPassword, newPassword string) error {
	if claims == nil {
		return domain.ErrUnauthorized
	}
	logger.EnterMethod("authService.ChangePassword", "userID", claims.UserID)

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		logger.WarnContext(ctx, "Password change refused: wrong current password", "userID", user.ID)
		return domain.NewValidationError("current password is incorrect")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		logger.ExitMethodWithError("authService.ChangePassword", err)
		return err
	}

	cutoff := security.UserCutoff{IssuedBefore: time.Now(), Keep: claims.ID}
	if err := s.revoked.RevokeUserSessions(ctx, user.ID, cutoff, s.tokens.SessionTTL()); err != nil {
		logger.ErrorContext(ctx, "Password changed but other sessions were not revoked", "userID", user.ID, "error", err)
		return fmt.Errorf("revoke sessions: %w", err)
	}

	logger.ExitMethod("authService.ChangePassword", "userID", user.ID)
	return nil
}

// EnsureBootstrapSuperuser creates the first account on an empty users table.
// It reports whether a user was created.
func (s *authService) EnsureBootstrapSuperuser(ctx context.Context, username, password string) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if username == "" || password == "" {
		logger.WarnContext(ctx, "No users exist and no bootstrap credentials are configured")
		return false, nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, fmt.Errorf("bootstrap password: %w", err)
	}
	u := &domain.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: hash,
		Role:         domain.UserRoleSuperuser,
		Active:       true,
	}
	if err := u.Validate(); err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return false, err
	}
	logger.InfoContext(ctx, "Bootstrap superuser created", "username", u.Username, "userID", u.ID)
	return true, nil
}
