package postgres

import (
	"quill/internal/domain/repository"
	"quill/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgNotNullViolation = "23502"

// classify turns a gorm/driver error into a *repository.Error. With TranslateError
// enabled the postgres dialector already maps 23505, 23503 and 23514 to gorm sentinels.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	return repository.NewError(kindOf(err), op, err)
}

func kindOf(err error) repository.Kind {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.KindNotFound
	case isUniqueConstraintViolation(err):
		return repository.KindUniqueViolation
	case isForeignKeyConstraintViolation(err):
		return repository.KindForeignKeyViolation
	case isNotNullConstraintViolation(err):
		return repository.KindNotNullViolation
	case isCheckConstraintViolation(err):
		return repository.KindCheckViolation
	default:
		return repository.KindUnknown
	}
}

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// gorm has no sentinel for not_null_violation, so read the SQLSTATE.
func isNotNullConstraintViolation(err error) bool {
	pgErr, ok := errors.AsType[*pgconn.PgError](err)

	return ok && pgErr.Code == pgNotNullViolation
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated)
}

func notFound(op string) error {
	return repository.NewError(repository.KindNotFound, op, nil)
}
