package relational

import (
	"context"

	"campusfood/domain/user"
	"campusfood/infrastructure/persistence"
	"campusfood/infrastructure/persistence/relational/po"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	row := po.FromUserDomain(u)
	db := r.getDB(ctx)

	if u.ID() == 0 {
		if err := db.Create(row).Error; err != nil {
			if isDuplicateKey(err) {
				return user.NewEmailAlreadyExistsError(row.Email)
			}
			return wrapErr("user", "insert", err)
		}
		u.AssignIdentity(row.ID)
		return nil
	}

	result := db.Model(&po.UserPO{}).Where("id = ?", row.ID).Updates(map[string]any{
		"name":          row.Name,
		"password_hash": row.PasswordHash,
		"room_number":   row.RoomNumber,
		"is_admin":      row.IsAdmin,
		"updated_at":    row.UpdatedAt,
	})
	if result.Error != nil {
		return wrapErr("user", "update", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.NewUserNotFoundError(row.ID)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var row po.UserPO
	if err := r.getDB(ctx).First(&row, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, user.NewUserNotFoundError(id)
		}
		return nil, wrapErr("user", "find", err)
	}
	return row.ToDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*user.User, error) {
	out := make(map[int64]*user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []po.UserPO
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, wrapErr("user", "find", err)
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// FindByEmail relies on emails being stored lower-case.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var row po.UserPO
	if err := r.getDB(ctx).First(&row, "email = ?", user.NormalizeEmail(email)).Error; err != nil {
		if isNotFound(err) {
			return nil, user.NewUserNotFoundError(0)
		}
		return nil, wrapErr("user", "find by email", err)
	}
	return row.ToDomain(), nil
}

var _ user.Repository = (*UserRepository)(nil)
