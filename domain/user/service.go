package user

import (
	"context"
	"errors"

	"campusfood/domain/shared"
)

// DomainService holds identity rules that need the repository. It only reads.
type DomainService struct {
	userRepository Repository
}

func NewDomainService(userRepo Repository) *DomainService {
	return &DomainService{userRepository: userRepo}
}

// EnsureEmailAvailable fails with a conflict when the address is taken.
func (s *DomainService) EnsureEmailAvailable(ctx context.Context, email Email) error {
	_, err := s.userRepository.FindByEmail(ctx, email.Value())
	switch {
	case err == nil:
		return NewEmailAlreadyExistsError(email.Value())
	case errors.Is(err, shared.ErrNotFound):
		return nil
	default:
		return err
	}
}

// RequireAdmin loads the user and checks the admin flag.
// A user that no longer exists is reported as not found.
func (s *DomainService) RequireAdmin(ctx context.Context, userID int64) (*User, error) {
	u, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, shared.NewForbiddenError("user", "admin access required")
	}
	return u, nil
}
