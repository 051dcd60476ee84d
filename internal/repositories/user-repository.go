package repositories

import (
	"context"
	"errors"
	"fmt"

	"snab-system/internal/entities"
	apperrors "snab-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByLogin(ctx context.Context, login string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) (uint64, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, `WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	return r.findOne(ctx, `WHERE login = $1 AND deleted_at IS NULL`, login)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg interface{}) (*entities.User, error) {
	var u entities.User
	err := r.storage.QueryRow(ctx,
		`SELECT id, fio, login, password_hash, role, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Fio, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO users (fio, login, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (login) DO UPDATE SET fio = EXCLUDED.fio, role = EXCLUDED.role
		RETURNING id`,
		user.Fio, user.Login, user.PasswordHash, user.Role,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	user.ID = id
	return id, nil
}
