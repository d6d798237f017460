package memory

import (
	"context"

	"campusfood/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func userDTO(u *user.User) user.ReconstructionDTO {
	return user.ReconstructionDTO{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		RoomNumber:   u.RoomNumber(),
		IsAdmin:      u.IsAdmin(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return r.store.write(ctx, func(st *state) error {
		dto := userDTO(u)
		if u.ID() == 0 {
			if err := r.store.fault("user.insert"); err != nil {
				return err
			}
			for _, existing := range st.users {
				if existing.Email == dto.Email {
					return user.NewEmailAlreadyExistsError(dto.Email)
				}
			}
			st.lastUserID++
			dto.ID = st.lastUserID
			st.users[dto.ID] = dto
			u.AssignIdentity(dto.ID)
			return nil
		}

		if _, ok := st.users[dto.ID]; !ok {
			return user.NewUserNotFoundError(dto.ID)
		}
		if err := r.store.fault("user.update"); err != nil {
			return err
		}
		st.users[dto.ID] = dto
		return nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var found *user.User
	err := r.store.read(ctx, func(st *state) error {
		dto, ok := st.users[id]
		if !ok {
			return user.NewUserNotFoundError(id)
		}
		found = user.RebuildFromDTO(dto)
		return nil
	})
	return found, err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*user.User, error) {
	out := make(map[int64]*user.User, len(ids))
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range ids {
			if dto, ok := st.users[id]; ok {
				out[id] = user.RebuildFromDTO(dto)
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	normalized := user.NormalizeEmail(email)
	var found *user.User
	err := r.store.read(ctx, func(st *state) error {
		for _, dto := range st.users {
			if dto.Email == normalized {
				found = user.RebuildFromDTO(dto)
				return nil
			}
		}
		return user.NewUserNotFoundError(0)
	})
	return found, err
}

var _ user.Repository = (*UserRepository)(nil)
