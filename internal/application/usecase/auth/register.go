package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	pkgauth "github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type RegisterUseCase struct {
	userRepo  user.Repository
	hasher    service.PasswordHasher
	publisher service.UserEventPublisher
	logger    logger.Logger
}

func NewRegisterUseCase(
	repo user.Repository,
	hasher service.PasswordHasher,
	publisher service.UserEventPublisher,
	log logger.Logger,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:  repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    log,
	}
}

type RegisterInput struct {
	Name     *string
	Email    string
	Password string
}

type RegisterOutput struct {
	User *user.User
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	_, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		err = apperror.NewConflict("user", "email", input.Email)
		span.RecordError(err)
		return nil, err
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		span.RecordError(err)
		return nil, err
	}

	if input.Password == "" {
		return nil, apperror.NewInvalidInput("password is required", nil)
	}
	if len(input.Password) > pkgauth.MaxPasswordBytes {
		return nil, apperror.NewInvalidInput("password exceeds 72 bytes", nil)
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		uc.logger.Error("Failed to hash password", err, zap.String("email", input.Email))
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	// a concurrent registration can still win here; Create reports it as a conflict
	created, err := uc.userRepo.Create(ctx, &user.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user_id", created.ID))
	service.Notify(ctx, uc.publisher, uc.logger, service.UserEventRegistered, created.ID, created.Email)

	return &RegisterOutput{User: created}, nil
}
