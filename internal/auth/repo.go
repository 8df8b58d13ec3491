package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAdminNotFound = errors.New("admin user not found")

type AdminUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}

type AdminsRepo struct {
	db *pgxpool.Pool
}

func NewAdminsRepo(db *pgxpool.Pool) *AdminsRepo {
	return &AdminsRepo{
		db: db,
	}
}

func (r *AdminsRepo) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, email, password_hash, name, role, active FROM adminuser WHERE email = $1;`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrAdminNotFound
	}

	var admin AdminUser
	if err := rows.Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash,
		&admin.Name, &admin.Role, &admin.Active,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminsRepo) Insert(ctx context.Context, admin *AdminUser) (string, error) {
	if admin.Email == "" || admin.PasswordHash == "" {
		return "", errors.New("admin email or password hash empty")
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO adminuser (id, email, password_hash, name, role, active)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		id, admin.Email, admin.PasswordHash, admin.Name, admin.Role, admin.Active,
	); err != nil {
		return "", err
	}

	admin.ID = id
	return id, nil
}
