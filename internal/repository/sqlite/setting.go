package sqlite

import (
	"context"
	"database/sql"

	"github.com/permitdesk/permitdesk/pkg/models"
)

// UpsertSetting inserts or replaces a setting by key.
func (r *SQLiteRepo) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO settings (key, value, updated) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated=excluded.updated`, key, value, now())
	return err
}

func (r *SQLiteRepo) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	row := r.conn.QueryRow(ctx, `SELECT key, value, updated FROM settings WHERE key = ?`, key)
	var s models.Setting
	if err := row.Scan(&s.Key, &s.Value, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepo) ListSettings(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT key, value, updated FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
