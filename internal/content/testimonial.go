package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Testimonial struct {
	ID           string    `json:"id,omitempty"`
	ClientName   string    `json:"client_name"`
	Description  string    `json:"description,omitempty"`
	VideoURL     string    `json:"video_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"-"`
}

type TestimonialsRepo struct {
	db *pgxpool.Pool
}

func NewTestimonialsRepo(db *pgxpool.Pool) *TestimonialsRepo {
	return &TestimonialsRepo{
		db: db,
	}
}

// List returns all testimonials in insertion order.
func (r *TestimonialsRepo) List(ctx context.Context) ([]Testimonial, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, client_name, description, video_url, thumbnail_url, sort_order, created_at
			FROM testimonial
			ORDER BY created_at ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var testimonials []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(
			&t.ID, &t.ClientName, &t.Description,
			&t.VideoURL, &t.ThumbnailURL, &t.Order, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}

	return testimonials, nil
}

func (r *TestimonialsRepo) Insert(ctx context.Context, testimonial *Testimonial) (string, error) {
	if testimonial.ClientName == "" {
		return "", errors.New("testimonial client name empty")
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO testimonial (id, client_name, description, video_url, thumbnail_url, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		id, testimonial.ClientName, testimonial.Description,
		testimonial.VideoURL, testimonial.ThumbnailURL, testimonial.Order,
	); err != nil {
		return "", err
	}

	testimonial.ID = id
	return id, nil
}
