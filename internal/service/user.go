package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cheque-ledger-backend/internal/config"
	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
	"cheque-ledger-backend/internal/security"
)

type userService struct {
	userRepo   repository.UserRepository
	revoked    security.RevocationStore
	sessionTTL time.Duration
}

func NewUserService(userRepo repository.UserRepository, revoked security.RevocationStore, sessionTTL time.Duration) UserService {
	return &userService{userRepo: userRepo, revoked: revoked, sessionTTL: sessionTTL}
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, fmt.Sprintf(format, args...))
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, u *domain.User, password string) error {
	logger.EnterMethod("userService.CreateUser", "actorID", actor.UserID, "username", u.Username, "role", u.Role)

	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = domain.UserRoleUser
	}
	if err := u.Validate(); err != nil {
		return err
	}
	if !config.CanManageRole(actor.Role, u.Role) {
		return forbidden("%s cannot create %s accounts", actor.Role, u.Role)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Active = true

	if err := s.userRepo.Create(ctx, u); err != nil {
		logger.ExitMethodWithError("userService.CreateUser", err)
		return err
	}

	logger.ExitMethod("userService.CreateUser", "userID", u.ID)
	return nil
}

// target loads the user and checks the actor outranks them.
func (s *userService) target(ctx context.Context, actor Actor, id int32) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.ID != actor.UserID && !config.CanManageRole(actor.Role, u.Role) {
		return nil, forbidden("%s cannot manage %s accounts", actor.Role, u.Role)
	}
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, id int32, upd UserUpdate) (*domain.User, error) {
	logger.EnterMethod("userService.UpdateUser", "actorID", actor.UserID, "userID", id)

	u, err := s.target(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	self := u.ID == actor.UserID

	if upd.Email != nil {
		u.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.Role != nil && *upd.Role != u.Role {
		if self {
			return nil, forbidden("cannot change your own role")
		}
		if !config.CanManageRole(actor.Role, *upd.Role) {
			return nil, forbidden("%s cannot grant the %s role", actor.Role, *upd.Role)
		}
		u.Role = *upd.Role
	}
	if upd.Active != nil && *upd.Active != u.Active {
		if self {
			return nil, forbidden("cannot change your own active flag")
		}
		u.Active = *upd.Active
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		logger.ExitMethodWithError("userService.UpdateUser", err)
		return nil, err
	}

	logger.ExitMethod("userService.UpdateUser", "userID", u.ID, "role", u.Role, "active", u.Active)
	return u, nil
}

func (s *userService) ResetPassword(ctx context.Context, actor Actor, id int32, password string) error {
	u, err := s.target(ctx, actor, id)
	if err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	// the old password may be compromised, so none of the user's sessions survive
	if err := s.revoked.RevokeUserSessions(ctx, u.ID, security.UserCutoff{IssuedBefore: time.Now()}, s.sessionTTL); err != nil {
		logger.ErrorContext(ctx, "Password reset but sessions were not revoked", "userID", u.ID, "error", err)
		return fmt.Errorf("revoke sessions: %w", err)
	}
	logger.InfoContext(ctx, "Password reset", "actorID", actor.UserID, "userID", u.ID)
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, id int32) error {
	if id == actor.UserID {
		return forbidden("cannot delete your own account")
	}
	u, err := s.target(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, u.ID); err != nil {
		return err
	}
	logger.InfoContext(ctx, "User deleted", "actorID", actor.UserID, "userID", u.ID, "username", u.Username)
	return nil
}
