package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"campusfood/domain/shared"
	"campusfood/domain/user"
	"campusfood/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "h:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

func fakeIssuer(userID int64, email string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, email), nil
}

func newService(t *testing.T) (*ApplicationService, *memory.UserRepository) {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	return NewApplicationService(memory.NewUnitOfWorkFactory(store, nil), users, plainHasher{}, fakeIssuer), users
}

func register(t *testing.T, svc *ApplicationService, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Ada", Email: email, Password: "secret1", RoomNumber: "C-303",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	resp := register(t, svc, "Ada@Campus.edu")
	assert.Positive(t, resp.User.ID)
	assert.Equal(t, "ada@campus.edu", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)
	assert.Equal(t, fmt.Sprintf("token-%d-ada@campus.edu", resp.User.ID), resp.Token)

	stored, err := users.FindByEmail(ctx, "ada@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, "h:secret1", stored.PasswordHash())

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"duplicate email", RegisterRequest{Name: "B", Email: "ADA@campus.edu", Password: "secret1", RoomNumber: "1"}, user.ErrEmailAlreadyExists},
		{"missing room", RegisterRequest{Name: "B", Email: "b@campus.edu", Password: "secret1"}, shared.ErrInvalidInput},
		{"bad email", RegisterRequest{Name: "B", Email: "not-an-email", Password: "secret1", RoomNumber: "1"}, user.ErrInvalidEmail},
		{"short password", RegisterRequest{Name: "B", Email: "b@campus.edu", Password: "12345", RoomNumber: "1"}, user.ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = svc.Register(ctx, RegisterRequest{Name: "B", Email: "ada@campus.edu", Password: "secret1", RoomNumber: "1"})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	registered := register(t, svc, "grace@campus.edu")

	resp, err := svc.Login(ctx, LoginRequest{Email: "grace@campus.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	_, unknownErr := svc.Login(ctx, LoginRequest{Email: "nobody@campus.edu", Password: "secret1"})
	_, wrongErr := svc.Login(ctx, LoginRequest{Email: "grace@campus.edu", Password: "wrong-pass"})
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, user.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, user.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	_, err = svc.Login(ctx, LoginRequest{Email: "grace@campus.edu"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id := register(t, svc, "linus@campus.edu").User.ID

	profile, err := svc.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "C-303", profile.RoomNumber)

	room := "D-404"
	updated, err := svc.UpdateProfile(ctx, id, UpdateProfileRequest{RoomNumber: &room})
	require.NoError(t, err)
	assert.Equal(t, "D-404", updated.RoomNumber)
	assert.Equal(t, "Ada", updated.Name)

	_, err = svc.UpdateProfile(ctx, id, UpdateProfileRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id := register(t, svc, "ken@campus.edu").User.ID

	err := svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "wrong!", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	err = svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "123"})
	assert.ErrorIs(t, err, user.ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(ctx, id, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "newsecret"}))

	_, err = svc.Login(ctx, LoginRequest{Email: "ken@campus.edu", Password: "secret1"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginRequest{Email: "ken@campus.edu", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestAdminAccess(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id := register(t, svc, "staff@campus.edu").User.ID

	assert.ErrorIs(t, svc.RequireAdmin(ctx, id), shared.ErrForbidden)
	assert.ErrorIs(t, svc.RequireAdmin(ctx, 404), shared.ErrNotFound)

	granted, err := svc.GrantAdmin(ctx, "STAFF@campus.edu")
	require.NoError(t, err)
	assert.True(t, granted.IsAdmin)
	assert.NoError(t, svc.RequireAdmin(ctx, id))

	_, err = svc.GrantAdmin(ctx, "ghost@campus.edu")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
