package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"photogallery/internal/photoapi"
)

// PGSnapshotter keeps the favorites snapshot in a single JSONB row, so a
// save replaces the whole map in one statement just like the file layout.
type PGSnapshotter struct {
	db      *sql.DB
	profile string
}

// NewPGSnapshotter prepares the snapshot table and returns a snapshotter
// scoped to the given profile name.
func NewPGSnapshotter(ctx context.Context, db *sql.DB, profile string) (*PGSnapshotter, error) {
	if profile == "" {
		profile = "default"
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS favorites_snapshots (
			profile TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("ensure favorites_snapshots table: %w", err)
	}
	return &PGSnapshotter{db: db, profile: profile}, nil
}

func (p *PGSnapshotter) Load(ctx context.Context) (map[int64]photoapi.Photo, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT data
		FROM favorites_snapshots
		WHERE profile = $1
	`, p.profile).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load favorites snapshot: %w", err)
	}

	return decodeSnapshot(data)
}

func (p *PGSnapshotter) Save(ctx context.Context, favorites map[int64]photoapi.Photo) error {
	data, err := encodeSnapshot(favorites)
	if err != nil {
		return err
	}

	if _, err := p.db.ExecContext(ctx, `
		INSERT INTO favorites_snapshots (profile, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, p.profile, data); err != nil {
		return fmt.Errorf("save favorites snapshot: %w", err)
	}
	return nil
}
