// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "quill/internal/delivery/context"
	"quill/internal/domain/entity"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/repository"
	"quill/internal/domain/service"
	"quill/internal/errors"
	"quill/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	policy    service.PasswordPolicy
	tokens    service.TokenIssuer
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Policy    service.PasswordPolicy
	Tokens    service.TokenIssuer
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		policy:    params.Policy,
		tokens:    params.Tokens,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// fail logs err at a level matching its kind and returns it unchanged.
func (srv *authService) fail(ctx context.Context, msg string, err error, attrs ...any) error {
	logFailure(srv.log(ctx), msg, err, attrs...)

	return err
}

// Register validates and hashes the password, then creates the account.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.UserView, error) {
	srv.log(ctx).Debug("Starting registration", slog.String("email", input.Email))

	if err := srv.policy.Validate(input.Password); err != nil {
		return nil, srv.fail(ctx, "Registration rejected", errors.Wrap(err, "password does not meet the policy"), slog.String("email", input.Email))
	}

	digest, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, srv.fail(ctx, "Registration failed", domainerrors.NewInternalError(errors.Wrap(err, "failed to hash password during registration")))
	}

	user := &entity.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: digest,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, srv.fail(ctx, "Registration failed", userFailure(err, user.ID), slog.String("email", input.Email))
	}

	srv.log(ctx).Info("User registered", slog.Any("userID", user.ID))

	return usecase.NewUserView(user), nil
}

// Login checks the password against the stored digest and issues a session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, srv.fail(ctx, "Login failed", domainerrors.NewNotFoundBy("User", "email", input.Email))
		}

		return nil, srv.fail(ctx, "Login failed", domainerrors.NewInternalError(errors.Wrap(err, "failed to find user by email")))
	}

	// bcrypt is CPU-bound; no transaction is held here.
	ok, err := srv.hasher.Check(input.Password, user.PasswordHash)
	if err != nil {
		return nil, srv.fail(ctx, "Login failed", domainerrors.NewInternalError(errors.Wrap(err, "failed to verify password")), slog.Any("userID", user.ID))
	}
	if !ok {
		return nil, srv.fail(ctx, "Login failed", errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch"), slog.String("email", input.Email))
	}

	token, err := srv.tokens.Issue(service.Claims{
		Subject: user.ID,
		Email:   user.Email,
		Name:    user.Name,
	})
	if err != nil {
		return nil, srv.fail(ctx, "Login failed", domainerrors.NewInternalError(errors.Wrap(err, "failed to issue token")), slog.Any("userID", user.ID))
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{Token: token}, nil
}

// Me verifies token. Any verification failure is reported as InvalidToken.
func (srv *authService) Me(ctx context.Context, token string) (*service.Claims, error) {
	claims, err := srv.tokens.Verify(token)
	if err != nil {
		if domainerrors.KindOf(err) != domainerrors.KindInvalidToken {
			err = errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
		}

		srv.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return nil, err
	}

	return claims, nil
}

func (srv *authService) GetUser(ctx context.Context, id uuid.UUID) (*usecase.UserView, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, srv.fail(ctx, "Failed to get user", userFailure(err, id), slog.Any("userID", id))
	}

	return usecase.NewUserView(user), nil
}

// UpdateUser applies a partial update to the actor's own account. A new password
// is checked against the policy and re-hashed once the account is known to exist.
func (srv *authService) UpdateUser(ctx context.Context, actorID, id uuid.UUID, input *usecase.UpdateUserInput) (*usecase.UserView, error) {
	if actorID != id {
		return nil, srv.fail(ctx, "User update denied", errors.Wrap(domainerrors.ErrForbidden, "users may only update their own account"), slog.Any("actorID", actorID), slog.Any("userID", id))
	}

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, err := userRepo.FindByID(ctx, id); err != nil {
			return errors.Wrap(err, "failed to find user for update")
		}

		patch, err := srv.userPatch(input)
		if err != nil {
			return err
		}

		updated, err = userRepo.Update(ctx, id, patch)
		if err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		return nil
	})
	if err != nil {
		return nil, srv.fail(ctx, "User update failed", userFailure(err, id), slog.Any("userID", id))
	}

	srv.log(ctx).Info("User updated", slog.Any("userID", id))

	return usecase.NewUserView(updated), nil
}

// userPatch converts input into a patch, hashing a new password if one is given.
func (srv *authService) userPatch(input *usecase.UpdateUserInput) (entity.UserPatch, error) {
	patch := entity.UserPatch{Email: input.Email, Name: input.Name}
	if input.Password == nil {
		return patch, nil
	}

	if err := srv.policy.Validate(*input.Password); err != nil {
		return patch, errors.Wrap(err, "password does not meet the policy")
	}

	digest, err := srv.hasher.Hash(*input.Password)
	if err != nil {
		return patch, domainerrors.NewInternalError(errors.Wrap(err, "failed to hash password during update"))
	}
	patch.PasswordHash = &digest

	return patch, nil
}

func (srv *authService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) (*usecase.DeleteOutput, error) {
	if actorID != id {
		return nil, srv.fail(ctx, "User delete denied", errors.Wrap(domainerrors.ErrForbidden, "users may only delete their own account"), slog.Any("actorID", actorID), slog.Any("userID", id))
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, err := userRepo.FindByID(ctx, id); err != nil {
			return errors.Wrap(err, "failed to find user for delete")
		}

		return errors.Wrap(userRepo.Delete(ctx, id), "failed to delete user")
	})
	if err != nil {
		return nil, srv.fail(ctx, "User delete failed", userFailure(err, id), slog.Any("userID", id))
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", id))

	return &usecase.DeleteOutput{Message: fmt.Sprintf("User %s deleted", id)}, nil
}

// logFailure keeps client errors at warn and reserves error level for internal failures.
func logFailure(logger *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, slog.Any("error", err))

	if domainerrors.KindOf(err) == domainerrors.KindInternal {
		logger.Error(msg, attrs...)

		return
	}

	logger.Warn(msg, attrs...)
}
