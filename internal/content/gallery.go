package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GalleryItem struct {
	ID             string    `json:"id,omitempty"`
	Title          string    `json:"title"`
	ImageURL       string    `json:"image_url"`
	Category       string    `json:"category,omitempty"`
	BeforeImageURL string    `json:"before_image_url,omitempty"`
	AfterImageURL  string    `json:"after_image_url,omitempty"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"-"`
}

type GalleryRepo struct {
	db *pgxpool.Pool
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
	}
}

// List returns all gallery items in insertion order.
func (r *GalleryRepo) List(ctx context.Context) ([]GalleryItem, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, title, image_url, category, before_image_url, after_image_url, sort_order, created_at
			FROM galleryitem
			ORDER BY created_at ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var items []GalleryItem
	for rows.Next() {
		var item GalleryItem
		if err := rows.Scan(
			&item.ID, &item.Title, &item.ImageURL, &item.Category,
			&item.BeforeImageURL, &item.AfterImageURL, &item.Order, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *GalleryRepo) Insert(ctx context.Context, item *GalleryItem) (string, error) {
	if item.Title == "" || item.ImageURL == "" {
		return "", errors.New("gallery item title or image url empty")
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO galleryitem (id, title, image_url, category, before_image_url, after_image_url, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		id, item.Title, item.ImageURL, item.Category,
		item.BeforeImageURL, item.AfterImageURL, item.Order,
	); err != nil {
		return "", err
	}

	item.ID = id
	return id, nil
}
