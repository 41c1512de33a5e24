// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"quill/internal/domain/entity"

	"github.com/google/uuid"
)

// UserRepository defines the persistence operations for accounts.
// Failures are reported as *Error so callers can branch on Kind.
type UserRepository interface {
	// FindByID returns ErrNotFound when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail returns ErrNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists user and fills in its ID and timestamps.
	Create(ctx context.Context, user *entity.User) error

	// Update applies patch and returns the stored row.
	// It returns ErrNotFound when the row vanished before the write.
	Update(ctx context.Context, id uuid.UUID, patch entity.UserPatch) (*entity.User, error)

	// Delete removes the row, returning ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}
