package repository

import (
	"context"
	"database/sql"

	"github.com/jask/daybook/internal/database"
)

// SettingRepo handles settings rows.
type SettingRepo struct {
	db *sql.DB
}

func NewSettingRepo(db *sql.DB) *SettingRepo {
	return &SettingRepo{db: db}
}

const upsertSetting = `
	INSERT INTO settings(section, field, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(section, field) DO UPDATE SET
	 value=excluded.value,
	 updated_at=excluded.updated_at;
	`

// UpsertAll writes rows inside tx so a partial save never lands.
func (r *SettingRepo) UpsertAll(ctx context.Context, tx *sql.Tx, rows []SettingRow) error {
	stmt, err := tx.PrepareContext(ctx, upsertSetting)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := database.Now()
	for _, s := range rows {
		if _, err := stmt.ExecContext(ctx, s.Section, s.Field, s.Value, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *SettingRepo) List(ctx context.Context) ([]SettingRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT section, field, value, updated_at FROM settings ORDER BY section, field`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SettingRow
	for rows.Next() {
		var s SettingRow
		if err := rows.Scan(&s.Section, &s.Field, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
