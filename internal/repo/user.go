package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		pool: pool,
	}
}

func (r *UserRepo) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	// ON CONFLICT не используем - повторная регистрация должна падать с conflict
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING email, username, password_hash, created_at
	`, u.Email, u.Username, u.PasswordHash).Scan(
		&u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	return u, mapError(err)
}

func (r *UserRepo) GetUser(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT email, username, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)

	if err == pgx.ErrNoRows {
		return u, ErrorNotFound
	}
	return u, err
}
