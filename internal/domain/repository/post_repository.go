package repository

import (
	"context"

	"quill/internal/domain/entity"

	"github.com/google/uuid"
)

// PostRepository defines the persistence operations for posts.
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// List returns posts newest first.
	List(ctx context.Context, offset, limit int) ([]*entity.Post, error)

	Count(ctx context.Context) (int64, error)

	// Create returns a KindForeignKeyViolation error when the author does not exist.
	Create(ctx context.Context, post *entity.Post) error

	Update(ctx context.Context, id uuid.UUID, patch entity.PostPatch) (*entity.Post, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
