package user

import (
	"strconv"
	"strings"
	"time"

	"campusfood/domain/shared"
)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 6

// User aggregate root. Users are never hard-deleted.
type User struct {
	id           int64
	name         string
	email        Email
	passwordHash string
	roomNumber   string
	isAdmin      bool
	createdAt    time.Time
	updatedAt    time.Time

	events []shared.DomainEvent
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare returns nil when plain matches hash.
	Compare(hash, plain string) error
}

type Registration struct {
	Name       string
	Email      string
	Password   string
	RoomNumber string
}

// Register validates the registration and hashes the password.
func Register(r Registration, hasher PasswordHasher) (*User, error) {
	name := strings.TrimSpace(r.Name)
	room := strings.TrimSpace(r.RoomNumber)
	if name == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" || room == "" {
		return nil, NewMissingFieldsError()
	}
	email, err := NewEmail(r.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(r.Password); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		name:         name,
		email:        email,
		passwordHash: hash,
		roomNumber:   room,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return NewWeakPasswordError()
	}
	return nil
}

// VerifyPassword reports a mismatch as invalid credentials.
func (u *User) VerifyPassword(plain string, hasher PasswordHasher) error {
	if err := hasher.Compare(u.passwordHash, plain); err != nil {
		return NewInvalidCredentialsError()
	}
	return nil
}

// ProfilePatch carries the fields a user may change about themselves.
type ProfilePatch struct {
	Name       *string
	RoomNumber *string
}

func (u *User) UpdateProfile(p ProfilePatch) error {
	if p.Name == nil && p.RoomNumber == nil {
		return shared.NewValidationError("user", "", "no fields to update")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return shared.NewValidationError("user", "name", "name cannot be empty")
	}
	if p.RoomNumber != nil && strings.TrimSpace(*p.RoomNumber) == "" {
		return shared.NewValidationError("user", "room_number", "room number cannot be empty")
	}
	if p.Name != nil {
		u.name = strings.TrimSpace(*p.Name)
	}
	if p.RoomNumber != nil {
		u.roomNumber = strings.TrimSpace(*p.RoomNumber)
	}
	u.updatedAt = time.Now()
	return nil
}

// ChangePassword verifies current before storing the new hash.
func (u *User) ChangePassword(current, next string, hasher PasswordHasher) error {
	if current == "" || next == "" {
		return shared.NewValidationError("user", "password", "current and new password are required")
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	if err := hasher.Compare(u.passwordHash, current); err != nil {
		return shared.NewUnauthorizedError("user", "current password is incorrect")
	}
	hash, err := hasher.Hash(next)
	if err != nil {
		return err
	}
	u.passwordHash = hash
	u.updatedAt = time.Now()
	return nil
}

// GrantAdmin is idempotent; it records an event only on change.
func (u *User) GrantAdmin() {
	if u.isAdmin {
		return
	}
	u.isAdmin = true
	u.updatedAt = time.Now()
	u.events = append(u.events, NewAdminGrantedEvent(u.id, u.email.Value()))
}

// AssignIdentity is called by the repository after insert.
func (u *User) AssignIdentity(id int64) {
	first := u.id == 0
	u.id = id
	if first {
		u.events = append(u.events, NewUserRegisteredEvent(u.id, u.name, u.email.Value()))
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) RoomNumber() string   { return u.roomNumber }
func (u *User) IsAdmin() bool        { return u.isAdmin }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) PullEvents() []shared.DomainEvent {
	events := u.events
	u.events = nil
	return events
}

// ReconstructionDTO is for repositories only.
type ReconstructionDTO struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	RoomNumber   string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *User {
	return &User{
		id:           dto.ID,
		name:         dto.Name,
		email:        Email{value: dto.Email},
		passwordHash: dto.PasswordHash,
		roomNumber:   dto.RoomNumber,
		isAdmin:      dto.IsAdmin,
		createdAt:    dto.CreatedAt,
		updatedAt:    dto.UpdatedAt,
	}
}

func idString(id int64) string { return strconv.FormatInt(id, 10) }

var _ shared.AggregateRoot = (*User)(nil)
