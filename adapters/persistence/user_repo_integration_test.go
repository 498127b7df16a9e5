package persistence

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type UserRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	userRepo    user.Repository
}

func (s *UserRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	if err := RunMigrations(ctx, dsn, logger.NewNop()); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool
	s.userRepo = NewPostgresUserRepo(s.dbPool, logger.NewNop())
}

func (s *UserRepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE users RESTART IDENTITY`)
	s.Require().NoError(err)
}

func (s *UserRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestUserRepoIntegration(t *testing.T) {
	if testing.Short() || os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set INTEGRATION_TESTS=1 to run.")
	}
	suite.Run(t, new(UserRepoIntegrationTestSuite))
}

func (s *UserRepoIntegrationTestSuite) createUser(email string) *user.User {
	name := "User " + email
	u, err := s.userRepo.Create(context.Background(), &user.User{Email: email, PasswordHash: "hash", Name: &name})
	s.Require().NoError(err)
	return u
}

func (s *UserRepoIntegrationTestSuite) Test_Create_And_FindByEmail() {
	ctx := context.Background()

	created := s.createUser("a@x.com")
	s.NotZero(created.ID)
	s.False(created.CreatedAt.IsZero())

	found, err := s.userRepo.FindByEmail(ctx, "a@x.com")
	s.NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("hash", found.PasswordHash)
	s.Nil(found.Interests)

	_, err = s.userRepo.FindByEmail(ctx, "ghost@x.com")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *UserRepoIntegrationTestSuite) Test_Create_DuplicateEmail() {
	s.createUser("a@x.com")

	_, err := s.userRepo.Create(context.Background(), &user.User{Email: "a@x.com", PasswordHash: "other"})
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *UserRepoIntegrationTestSuite) Test_Update_Partial() {
	ctx := context.Background()
	created := s.createUser("a@x.com")

	bio := "Gopher"
	updated, err := s.userRepo.Update(ctx, created.ID, user.UpdateFields{
		Bio:       &bio,
		Interests: json.RawMessage(`["go","sql"]`),
	})
	s.NoError(err)
	s.Equal(*created.Name, *updated.Name)
	s.Equal("Gopher", *updated.Bio)
	s.JSONEq(`["go","sql"]`, string(updated.Interests))
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))
	s.Equal(created.PasswordHash, updated.PasswordHash)
}

func (s *UserRepoIntegrationTestSuite) Test_Delete() {
	ctx := context.Background()
	created := s.createUser("a@x.com")

	s.NoError(s.userRepo.Delete(ctx, created.ID))
	s.ErrorIs(s.userRepo.Delete(ctx, created.ID), apperror.ErrNotFound)
}

func (s *UserRepoIntegrationTestSuite) Test_ListExcluding() {
	ctx := context.Background()
	s.createUser("u1@x.com")
	s.createUser("u2@x.com")
	s.createUser("me@x.com")
	s.createUser("u3@x.com")

	users, err := s.userRepo.ListExcluding(ctx, "me@x.com", 2, 0)
	s.NoError(err)
	s.Require().Len(users, 2)
	s.Equal("u3@x.com", users[0].Email)
	s.Equal("u2@x.com", users[1].Email)

	users, err = s.userRepo.ListExcluding(ctx, "me@x.com", 2, 2)
	s.NoError(err)
	s.Require().Len(users, 1)
	s.Equal("u1@x.com", users[0].Email)

	users, err = s.userRepo.ListExcluding(ctx, "me@x.com", 2, 10)
	s.NoError(err)
	s.Empty(users)
}
