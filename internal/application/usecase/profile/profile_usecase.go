package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	userRepo  user.Repository
	uploader  service.Uploader
	publisher service.UserEventPublisher
	logger    logger.Logger
}

func NewProfileUseCase(
	repo user.Repository,
	uploader service.Uploader,
	publisher service.UserEventPublisher,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:  repo,
		uploader:  uploader,
		publisher: publisher,
		logger:    log,
	}
}

type GetProfileInput struct {
	Email string
}

type GetProfileOutput struct {
	User *user.User
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &GetProfileOutput{User: u}, nil
}

type PhotoUpload struct {
	File     io.Reader
	Filename string
}

type UpdateProfileInput struct {
	Email     string
	Name      *string
	Bio       *string
	Headline  *string
	Interests json.RawMessage
	Photo     *PhotoUpload
}

type UpdateProfileOutput struct {
	User *user.User
}

// ExecuteUpdateProfile overwrites every provided field, empty strings included,
// and leaves the others untouched.
func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()

	// a JSON null leaves interests untouched, like an absent field
	if bytes.Equal(bytes.TrimSpace(input.Interests), []byte("null")) {
		input.Interests = nil
	}
	if input.Interests != nil && !json.Valid(input.Interests) {
		return nil, apperror.NewInvalidInput("interests must be valid JSON", nil)
	}

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	span.SetAttributes(attribute.Int64("user_id", u.ID))

	fields := user.UpdateFields{
		Name:      input.Name,
		Bio:       input.Bio,
		Headline:  input.Headline,
		Interests: input.Interests,
	}

	if input.Photo != nil {
		path, err := uc.uploader.Upload(ctx, input.Photo.File, input.Photo.Filename)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		fields.Photo = &path
	}

	if fields.IsEmpty() {
		return &UpdateProfileOutput{User: u}, nil
	}

	updated, err := uc.userRepo.Update(ctx, u.ID, fields)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile failed: %w", err)
	}

	service.Notify(ctx, uc.publisher, uc.logger, service.UserEventUpdated, updated.ID, updated.Email)
	return &UpdateProfileOutput{User: updated}, nil
}

type DeleteProfileInput struct {
	Email string
}

func (uc *ProfileUseCase) ExecuteDeleteProfile(ctx context.Context, input DeleteProfileInput) error {
	ctx, span := tracer.Start(ctx, "DeleteProfile")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete profile failed: %w", err)
	}

	if err := uc.userRepo.Delete(ctx, u.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete profile failed: %w", err)
	}

	uc.logger.Info("Deleted user profile", zap.Int64("user_id", u.ID))
	service.Notify(ctx, uc.publisher, uc.logger, service.UserEventDeleted, u.ID, u.Email)
	return nil
}

type ListProfilesInput struct {
	CallerEmail string
	Page        int
	Limit       int
}

type ListProfilesOutput struct {
	Users []*user.User
	Page  int
	Limit int
}

// ExecuteListProfiles pages through every user except the caller, newest first.
func (uc *ProfileUseCase) ExecuteListProfiles(ctx context.Context, input ListProfilesInput) (*ListProfilesOutput, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	if input.CallerEmail == "" {
		return nil, apperror.NewUnauthenticated("caller email missing from token", nil)
	}

	if input.Page <= 0 {
		input.Page = DefaultPage
	}
	if input.Limit <= 0 {
		input.Limit = DefaultLimit
	}
	if input.Limit > MaxLimit {
		input.Limit = MaxLimit
	}
	// pages past the addressable range are empty
	if input.Page-1 > math.MaxInt64/input.Limit {
		return &ListProfilesOutput{Users: []*user.User{}, Page: input.Page, Limit: input.Limit}, nil
	}
	offset := (input.Page - 1) * input.Limit

	users, err := uc.userRepo.ListExcluding(ctx, input.CallerEmail, input.Limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result_count", len(users)))

	return &ListProfilesOutput{Users: users, Page: input.Page, Limit: input.Limit}, nil
}
