package media

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Insert(ctx context.Context, asset *Asset) (string, error) {
	if asset.URL == "" || asset.Type == "" {
		return "", errors.New("media asset url or type empty")
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO mediaasset (id, url, type, width, height, size, alt)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		id, asset.URL, asset.Type, asset.Width, asset.Height, asset.Size, asset.Alt,
	); err != nil {
		return "", err
	}

	asset.ID = id
	return id, nil
}
