package messages

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

func (r *Repo) Insert(ctx context.Context, message *Message) (string, error) {
	if message.Name == "" || message.Email == "" || message.Message == "" {
		return "", errors.New("message name, email or body empty")
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO message (id, name, email, phone, message, read)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		id, message.Name, message.Email, message.Phone, message.Message, message.Read,
	); err != nil {
		return "", err
	}

	message.ID = id
	return id, nil
}

// List returns all messages in insertion order.
func (r *Repo) List(ctx context.Context) ([]Message, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, email, phone, message, read, created_at
			FROM message
			ORDER BY created_at ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Read, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	return msgs, nil
}
