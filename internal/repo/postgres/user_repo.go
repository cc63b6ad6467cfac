package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krjofficial/mern-ecomm/internal/domain/enums"
	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	"github.com/krjofficial/mern-ecomm/internal/security"
	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
)

type UserRepo struct {
	db DB
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: asDB(pool)}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	if r.db == nil {
		return model.User{}, errNoDB
	}

	email = model.NormalizeEmail(email)
	if email == "" {
		return model.User{}, authsvc.ErrPrincipalNotFound
	}

	user, err := scanUser(r.db.QueryRow(ctx, `
SELECT id, email, password_hash, name, role, created_at, updated_at
FROM users
WHERE email = $1
`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrPrincipalNotFound
		}
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	if r.db == nil {
		return model.User{}, errNoDB
	}

	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return model.User{}, authsvc.ErrPrincipalNotFound
	}

	user, err := scanUser(r.db.QueryRow(ctx, `
SELECT id, email, password_hash, name, role, created_at, updated_at
FROM users
WHERE id = $1
`, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrPrincipalNotFound
		}
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// Create hashes the plaintext password before anything reaches the database.
func (r *UserRepo) Create(ctx context.Context, in model.NewUser) (model.User, error) {
	if r.db == nil {
		return model.User{}, errNoDB
	}

	email := model.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return model.User{}, authsvc.ErrInvalidInput
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if !role.Valid() {
		role = enums.RoleCustomer
	}

	user, err := scanUser(r.db.QueryRow(ctx, `
INSERT INTO users (id, email, password_hash, name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING id, email, password_hash, name, role, created_at, updated_at
`, uuid.New(), email, hash, name, string(role)))
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return model.User{}, authsvc.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) Save(ctx context.Context, user model.User) (model.User, error) {
	if r.db == nil {
		return model.User{}, errNoDB
	}

	parsed, err := uuid.Parse(user.ID)
	if err != nil {
		return model.User{}, authsvc.ErrPrincipalNotFound
	}

	saved, err := scanUser(r.db.QueryRow(ctx, `
UPDATE users
SET email = $2, name = $3, role = $4, updated_at = NOW()
WHERE id = $1
RETURNING id, email, password_hash, name, role, created_at, updated_at
`, parsed, model.NormalizeEmail(user.Email), strings.TrimSpace(user.Name), string(enums.ParseRole(string(user.Role)))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrPrincipalNotFound
		}
		if pgErrorCode(err) == uniqueViolation {
			return model.User{}, authsvc.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("save user: %w", err)
	}
	return saved, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user model.User
		role string
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return model.User{}, err
	}
	user.Role = enums.ParseRole(role)
	return user, nil
}
