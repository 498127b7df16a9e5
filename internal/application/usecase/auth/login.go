package auth

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type LoginUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	tokens   service.TokenIssuer
	limiter  service.LoginLimiter
	logger   logger.Logger
}

func NewLoginUseCase(
	repo user.Repository,
	hasher service.PasswordHasher,
	tokens service.TokenIssuer,
	limiter service.LoginLimiter,
	log logger.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User        *user.User
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {

	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	allowed, err := uc.limiter.Allow(ctx, input.Email)
	if err != nil {
		// fail open while the limiter is unreachable
		uc.logger.Warn("Login limiter unavailable", zap.String("email", input.Email), zap.Error(err))
		allowed = true
	}
	if !allowed {
		err := apperror.NewTooManyRequests("login attempts exceeded for " + input.Email)
		span.RecordError(err)
		return nil, err
	}

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !uc.hasher.Check(input.Password, u.PasswordHash) {
		err := apperror.NewUnauthorized("incorrect password", nil)
		span.RecordError(err)
		return nil, err
	}

	if err := uc.limiter.Reset(ctx, input.Email); err != nil {
		uc.logger.Warn("Failed to reset login attempts", zap.Int64("user_id", u.ID), zap.Error(err))
	}

	token, err := uc.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.Int64("user_id", u.ID))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user_id", u.ID))
	return &LoginOutput{User: u, AccessToken: token}, nil
}
