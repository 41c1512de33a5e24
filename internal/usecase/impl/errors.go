package impl

import (
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/repository"
	"quill/internal/errors"
)

// userFailure maps a persistence failure on the user identified by id into the
// application taxonomy. Errors that already carry a kind pass through.
func userFailure(err error, id any) error {
	if _, ok := errors.AsType[domainerrors.AppError](err); ok {
		return err
	}

	switch repository.KindOf(err) {
	case repository.KindUniqueViolation:
		return errors.Wrap(domainerrors.ErrDuplicateEmail, "email already claimed")
	case repository.KindNotFound:
		return domainerrors.NewNotFound("User", id)
	default:
		return domainerrors.NewInternalError(err)
	}
}

// postFailure is the post counterpart of userFailure. A foreign-key violation
// means the author vanished, so it is reported against the author's user id.
func postFailure(err error, id, authorID any) error {
	if _, ok := errors.AsType[domainerrors.AppError](err); ok {
		return err
	}

	switch repository.KindOf(err) {
	case repository.KindUniqueViolation:
		return errors.Wrap(domainerrors.ErrConflict, "post already exists")
	case repository.KindForeignKeyViolation:
		return domainerrors.NewNotFound("User", authorID)
	case repository.KindNotFound:
		return domainerrors.NewNotFound("Post", id)
	default:
		return domainerrors.NewInternalError(err)
	}
}
