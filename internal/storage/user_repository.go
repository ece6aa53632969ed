package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/barberbook/barberbook/libs/db"
)

type User struct {
	ID           string
	Name         string
	CPF          string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, cpf, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Name, user.CPF, user.PasswordHash, user.Role)
	return err
}

func (r *UserRepository) GetByCPF(ctx context.Context, cpf string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, cpf, password_hash, role, created_at
		FROM users
		WHERE cpf = $1
	`, cpf).Scan(&user.ID, &user.Name, &user.CPF, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
