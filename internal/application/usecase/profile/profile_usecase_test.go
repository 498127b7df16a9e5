package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/internal/domain/user/usertest"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type fakeUploader struct {
	calls   int
	content string
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, file io.Reader, filename string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	b, _ := io.ReadAll(file)
	u.content = string(b)
	return "uploads/" + filename, nil
}

type recordingPublisher struct {
	events []service.UserEvent
}

func (p *recordingPublisher) PublishUserEvent(_ context.Context, evt service.UserEvent) error {
	p.events = append(p.events, evt)
	return nil
}

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repo *usertest.MemoryRepo, email string, name *string) *user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &user.User{Email: email, PasswordHash: "hash", Name: name})
	require.NoError(t, err)
	return u
}

func newUseCase(repo user.Repository) (*ProfileUseCase, *fakeUploader, *recordingPublisher) {
	up := &fakeUploader{}
	pub := &recordingPublisher{}
	return NewProfileUseCase(repo, up, pub, logger.NewNop()), up, pub
}

func TestGetProfile(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", strPtr("Ann"))
	uc, _, _ := newUseCase(repo)

	out, err := uc.ExecuteGetProfile(context.Background(), GetProfileInput{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", *out.User.Name)

	_, err = uc.ExecuteGetProfile(context.Background(), GetProfileInput{Email: "ghost@x.com"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateProfile_PartialUpdatePreservesOtherFields(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", strPtr("Ann"))
	uc, up, pub := newUseCase(repo)

	out, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email: "a@x.com",
		Bio:   strPtr("Gopher"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ann", *out.User.Name)
	assert.Equal(t, "Gopher", *out.User.Bio)
	assert.Nil(t, out.User.Headline)
	assert.Zero(t, up.calls)
	require.Len(t, pub.events, 1)
	assert.Equal(t, service.UserEventUpdated, pub.events[0].EventType)
}

func TestUpdateProfile_ProvidedEmptyStringOverwrites(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", strPtr("Ann"))
	uc, _, _ := newUseCase(repo)

	out, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{Email: "a@x.com", Name: strPtr("")})
	require.NoError(t, err)
	require.NotNil(t, out.User.Name)
	assert.Equal(t, "", *out.User.Name)
}

func TestUpdateProfile_WithPhotoAndInterests(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", nil)
	uc, up, _ := newUseCase(repo)

	out, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email:     "a@x.com",
		Headline:  strPtr("Engineer"),
		Interests: json.RawMessage(`["go","climbing"]`),
		Photo:     &PhotoUpload{File: strings.NewReader("img-bytes"), Filename: "me.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, up.calls)
	assert.Equal(t, "img-bytes", up.content)
	require.NotNil(t, out.User.Photo)
	assert.Equal(t, "uploads/me.png", *out.User.Photo)
	assert.JSONEq(t, `["go","climbing"]`, string(out.User.Interests))
	assert.Equal(t, "Engineer", *out.User.Headline)
}

func TestUpdateProfile_UnknownEmailDoesNotUpload(t *testing.T) {
	uc, up, pub := newUseCase(usertest.NewMemoryRepo())

	_, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email: "ghost@x.com",
		Photo: &PhotoUpload{File: strings.NewReader("x"), Filename: "x.png"},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, up.calls)
	assert.Empty(t, pub.events)
}

func TestUpdateProfile_InvalidInterests(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", nil)
	uc, _, _ := newUseCase(repo)

	_, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email:     "a@x.com",
		Interests: json.RawMessage(`{not json`),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateProfile_NullInterestsKeepsStoredValue(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", nil)
	uc, _, pub := newUseCase(repo)

	_, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email:     "a@x.com",
		Interests: json.RawMessage(`["go"]`),
	})
	require.NoError(t, err)

	out, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email:     "a@x.com",
		Bio:       strPtr("Gopher"),
		Interests: json.RawMessage(` null `),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", *out.User.Bio)
	assert.JSONEq(t, `["go"]`, string(out.User.Interests))

	out, err = uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email:     "a@x.com",
		Interests: json.RawMessage(`null`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["go"]`, string(out.User.Interests))
	assert.Len(t, pub.events, 2)
}

func TestUpdateProfile_UploadFailure(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", strPtr("Ann"))
	uc, up, _ := newUseCase(repo)
	up.err = apperror.NewInvalidInput("photo must be an image", nil)

	_, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		Email: "a@x.com",
		Name:  strPtr("Changed"),
		Photo: &PhotoUpload{File: strings.NewReader("text"), Filename: "notes.txt"},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", *got.Name)
}

func TestUpdateProfile_NothingProvidedIsNoop(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	before := seed(t, repo, "a@x.com", strPtr("Ann"))
	uc, _, pub := newUseCase(repo)

	out, err := uc.ExecuteUpdateProfile(context.Background(), UpdateProfileInput{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, out.User.UpdatedAt)
	assert.Empty(t, pub.events)
}

func TestDeleteProfile(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "a@x.com", nil)
	uc, _, pub := newUseCase(repo)

	require.NoError(t, uc.ExecuteDeleteProfile(context.Background(), DeleteProfileInput{Email: "a@x.com"}))
	assert.Zero(t, repo.Len())
	require.Len(t, pub.events, 1)
	assert.Equal(t, service.UserEventDeleted, pub.events[0].EventType)

	err := uc.ExecuteDeleteProfile(context.Background(), DeleteProfileInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListProfiles_ExcludesCallerNewestFirst(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	for i := 1; i <= 4; i++ {
		seed(t, repo, fmt.Sprintf("u%d@x.com", i), nil)
	}
	uc, _, _ := newUseCase(repo)

	out, err := uc.ExecuteListProfiles(context.Background(), ListProfilesInput{CallerEmail: "u2@x.com"})
	require.NoError(t, err)

	emails := make([]string, len(out.Users))
	for i, u := range out.Users {
		emails[i] = u.Email
	}
	assert.Equal(t, []string{"u4@x.com", "u3@x.com", "u1@x.com"}, emails)
	assert.Equal(t, DefaultPage, out.Page)
	assert.Equal(t, DefaultLimit, out.Limit)
}

func TestListProfiles_Paging(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	for i := 1; i <= 5; i++ {
		seed(t, repo, fmt.Sprintf("u%d@x.com", i), nil)
	}
	uc, _, _ := newUseCase(repo)

	out, err := uc.ExecuteListProfiles(context.Background(), ListProfilesInput{CallerEmail: "me@x.com", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Users, 2)
	assert.Equal(t, "u3@x.com", out.Users[0].Email)
	assert.Equal(t, "u2@x.com", out.Users[1].Email)

	out, err = uc.ExecuteListProfiles(context.Background(), ListProfilesInput{CallerEmail: "me@x.com", Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, out.Users)
	assert.Empty(t, out.Users)
}

func TestListProfiles_PageBeyondRangeIsEmpty(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	seed(t, repo, "u1@x.com", nil)
	uc, _, _ := newUseCase(repo)

	for _, page := range []int{math.MaxInt64 / 50, math.MaxInt64} {
		out, err := uc.ExecuteListProfiles(context.Background(), ListProfilesInput{CallerEmail: "me@x.com", Page: page, Limit: MaxLimit})
		require.NoError(t, err, "page %d", page)
		assert.NotNil(t, out.Users)
		assert.Empty(t, out.Users)
		assert.Equal(t, page, out.Page)
	}
}

func TestListProfiles_DefaultsAndCap(t *testing.T) {
	uc, _, _ := newUseCase(usertest.NewMemoryRepo())

	out, err := uc.ExecuteListProfiles(context.Background(), ListProfilesInput{CallerEmail: "me@x.com", Page: -3, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)
	assert.Empty(t, out.Users)

	out, err = uc.ExecuteListProfiles(context.Background(), ListProfilesInput{CallerEmail: "me@x.com", Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, out.Limit)
}

func TestListProfiles_RequiresCaller(t *testing.T) {
	uc, _, _ := newUseCase(usertest.NewMemoryRepo())

	_, err := uc.ExecuteListProfiles(context.Background(), ListProfilesInput{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestListProfiles_StoreError(t *testing.T) {
	repo := usertest.NewMemoryRepo()
	repo.FailWith = apperror.NewInternal("failed to list users", errors.New("timeout"))
	uc, _, _ := newUseCase(repo)

	_, err := uc.ExecuteListProfiles(context.Background(), ListProfilesInput{CallerEmail: "me@x.com"})
	assert.ErrorIs(t, err, apperror.ErrInternal)
}
