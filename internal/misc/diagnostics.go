package misc

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBDiagnostics answers store connectivity questions for the /test endpoint.
type DBDiagnostics struct {
	db *pgxpool.Pool
}

func NewDBDiagnostics(db *pgxpool.Pool) *DBDiagnostics {
	return &DBDiagnostics{
		db: db,
	}
}

func (d *DBDiagnostics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

// TableNames lists the public tables, the closest counterpart to a document
// store's collection names.
func (d *DBDiagnostics) TableNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.Query(
		ctx,
		`SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, nil
}
