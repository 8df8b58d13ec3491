package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Featured    bool      `json:"featured"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"-"`
}

type ServicesRepo struct {
	db *pgxpool.Pool
}

func NewServicesRepo(db *pgxpool.Pool) *ServicesRepo {
	return &ServicesRepo{
		db: db,
	}
}

// List returns all services in insertion order.
func (r *ServicesRepo) List(ctx context.Context) ([]Service, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, title, description, image_url, featured, sort_order, created_at
			FROM service
			ORDER BY created_at ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var services []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.ImageURL,
			&s.Featured, &s.Order, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		services = append(services, s)
	}

	return services, nil
}

func (r *ServicesRepo) Insert(ctx context.Context, service *Service) (string, error) {
	if service.Title == "" || service.Description == "" {
		return "", errors.New("service title or description empty")
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO service (id, title, description, image_url, featured, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		id, service.Title, service.Description, service.ImageURL, service.Featured, service.Order,
	); err != nil {
		return "", err
	}

	service.ID = id
	return id, nil
}
