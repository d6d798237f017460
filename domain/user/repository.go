package user

import "context"

type Repository interface {
	// Save inserts a new user (ID 0) and assigns its identity, or updates an existing one.
	// Inserting a duplicate email fails with NewEmailAlreadyExistsError.
	Save(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id int64) (*User, error)

	FindByIDs(ctx context.Context, ids []int64) (map[int64]*User, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)
}
