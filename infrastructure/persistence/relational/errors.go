package relational

import (
	"errors"

	"campusfood/domain/shared"

	"gorm.io/gorm"
)

// wrapErr keeps domain errors as they are and marks everything else as a
// persistence failure of entity/op.
func wrapErr(entity, op string, err error) error {
	if err == nil {
		return nil
	}
	var stacker shared.Stacker
	if errors.As(err, &stacker) {
		return err
	}
	return shared.NewPersistenceError(entity, op, err)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
