package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

const (
	userColumns       = "id, email, password_hash, name, bio, headline, photo, interests, created_at, updated_at"
	pgUniqueViolation = "23505"
)

var psqlUser = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresUserRepo struct {
	db     DBTX
	logger logger.Logger
}

func NewPostgresUserRepo(db DBTX, logger logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var interestsBytes []byte

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Bio,
		&u.Headline,
		&u.Photo,
		&interestsBytes,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if interestsBytes != nil {
		u.Interests = json.RawMessage(interestsBytes)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, apperror.NewInternal("failed to query user", err)
	}
	return u, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, bio, headline, photo, interests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.Bio, u.Headline, u.Photo, []byte(u.Interests),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.NewConflict("user", "email", u.Email)
		}
		return nil, apperror.NewInternal("failed to create user", err)
	}

	r.logger.Info("Created user", zap.Int64("user_id", created.ID))
	return created, nil
}

func (r *postgresUserRepo) Update(ctx context.Context, id int64, f user.UpdateFields) (*user.User, error) {
	builder := psqlUser.Update("users")
	if f.Name != nil {
		builder = builder.Set("name", *f.Name)
	}
	if f.Bio != nil {
		builder = builder.Set("bio", *f.Bio)
	}
	if f.Headline != nil {
		builder = builder.Set("headline", *f.Headline)
	}
	if f.Photo != nil {
		builder = builder.Set("photo", *f.Photo)
	}
	if f.Interests != nil {
		builder = builder.Set("interests", []byte(f.Interests))
	}
	builder = builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build update user query", err)
	}

	updated, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewInternal("failed to update user", err)
	}
	return updated, nil
}

func (r *postgresUserRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.NewInternal("failed to delete user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *postgresUserRepo) ListExcluding(ctx context.Context, email string, limit, offset int) ([]*user.User, error) {
	if limit <= 0 || offset < 0 {
		return []*user.User{}, nil
	}

	builder := psqlUser.Select(userColumns).
		From("users").
		Where(sq.NotEq{"email": email}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list users query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query users", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating user rows", err)
	}
	return users, nil
}
