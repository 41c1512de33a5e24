// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"quill/internal/domain/entity"
	"quill/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password,omitempty"`
}

// --- Output DTOs ---

// LoginOutput carries the signed session token.
type LoginOutput struct {
	Token string `json:"token"`
}

// UserView is the public shape of an account. It never carries the password digest.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserView strips credentials from user.
func NewUserView(user *entity.User) *UserView {
	return &UserView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ClaimsView renders token claims with numeric iat/exp as they appear on the wire.
type ClaimsView struct {
	Subject   uuid.UUID `json:"sub"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

func NewClaimsView(claims *service.Claims) *ClaimsView {
	return &ClaimsView{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
}

// DeleteOutput confirms a deletion.
type DeleteOutput struct {
	Message string `json:"message"`
}

// AuthUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*UserView, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	// Me verifies token and returns its claims. Every protected route goes through it.
	Me(ctx context.Context, token string) (*service.Claims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserView, error)
	UpdateUser(ctx context.Context, actorID, id uuid.UUID, input *UpdateUserInput) (*UserView, error)
	DeleteUser(ctx context.Context, actorID, id uuid.UUID) (*DeleteOutput, error)
}
