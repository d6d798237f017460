// Package auth handles registration, login and the caller's own profile.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusfood/domain/shared"
	"campusfood/domain/user"
	"campusfood/infrastructure/persistence"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
)

// TokenIssuer signs a bearer credential for a user.
type TokenIssuer func(userID int64, email string) (string, error)

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RoomNumber string `json:"room_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	RoomNumber *string `json:"room_number"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UserResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RoomNumber string    `json:"room_number"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ApplicationService struct {
	uowFactory    shared.UnitOfWorkFactory
	users         user.Repository
	domainService *user.DomainService
	hasher        user.PasswordHasher
	issue         TokenIssuer
}

func NewApplicationService(uowFactory shared.UnitOfWorkFactory, users user.Repository, hasher user.PasswordHasher, issue TokenIssuer) *ApplicationService {
	return &ApplicationService{
		uowFactory:    uowFactory,
		users:         users,
		domainService: user.NewDomainService(users),
		hasher:        hasher,
		issue:         issue,
	}
}

func (s *ApplicationService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	u, err := user.Register(user.Registration{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		RoomNumber: req.RoomNumber,
	}, s.hasher)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "auth.register")
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.domainService.EnsureEmailAvailable(ctx, u.Email()); err != nil {
			return err
		}
		if err := s.users.Save(ctx, u); err != nil {
			return err
		}
		uow.RegisterNew(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User registered", zap.Int64("user_id", u.ID()))
	return s.authenticated(u)
}

// Login reports unknown emails and wrong passwords with the same error.
func (s *ApplicationService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, shared.NewValidationError("user", "", "email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, user.NewInvalidCredentialsError()
		}
		return nil, err
	}
	if err := u.VerifyPassword(req.Password, s.hasher); err != nil {
		return nil, err
	}
	return s.authenticated(u)
}

func (s *ApplicationService) Profile(ctx context.Context, userID int64) (*UserResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *ApplicationService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*UserResponse, error) {
	var updated *user.User
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "auth.update_profile")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := u.UpdateProfile(user.ProfilePatch{Name: req.Name, RoomNumber: req.RoomNumber}); err != nil {
			return err
		}
		if err := s.users.Save(ctx, u); err != nil {
			return err
		}
		uow.RegisterDirty(u)
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(updated)
	return &resp, nil
}

func (s *ApplicationService) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "auth.change_password")
	return uow.Execute(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := u.ChangePassword(req.CurrentPassword, req.NewPassword, s.hasher); err != nil {
			return err
		}
		if err := s.users.Save(ctx, u); err != nil {
			return err
		}
		uow.RegisterDirty(u)
		return nil
	})
}

// RequireAdmin fails with NotFound for a vanished user and Forbidden for a non-admin.
func (s *ApplicationService) RequireAdmin(ctx context.Context, userID int64) error {
	_, err := s.domainService.RequireAdmin(ctx, userID)
	return err
}

// GrantAdmin sets the admin flag of the user registered under email.
func (s *ApplicationService) GrantAdmin(ctx context.Context, email string) (*UserResponse, error) {
	var granted *user.User
	uow := s.uowFactory.New()
	ctx = persistence.ContextWithOperation(ctx, "auth.grant_admin")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		u.GrantAdmin()
		if err := s.users.Save(ctx, u); err != nil {
			return err
		}
		uow.RegisterDirty(u)
		granted = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(granted)
	return &resp, nil
}

func (s *ApplicationService) authenticated(u *user.User) (*AuthResponse, error) {
	token, err := s.issue(u.ID(), u.Email().Value())
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: toUserResponse(u)}, nil
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:         u.ID(),
		Name:       u.Name(),
		Email:      u.Email().Value(),
		RoomNumber: u.RoomNumber(),
		IsAdmin:    u.IsAdmin(),
		CreatedAt:  u.CreatedAt(),
	}
}
