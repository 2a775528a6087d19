package repository

import (
	"context"
	"database/sql"
)

// BackupRepo handles backup history.
type BackupRepo struct {
	db *sql.DB
}

func NewBackupRepo(db *sql.DB) *BackupRepo { return &BackupRepo{db: db} }

func (r *BackupRepo) Insert(ctx context.Context, b BackupEntry) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO backup_history(id, taken_at) VALUES (?, ?)`, b.ID, b.TakenAt)
	return err
}

// List returns the newest entries first, at most limit of them (0 = all).
func (r *BackupRepo) List(ctx context.Context, limit int) ([]BackupEntry, error) {
	query := `SELECT id, taken_at FROM backup_history ORDER BY taken_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BackupEntry
	for rows.Next() {
		var b BackupEntry
		if err := rows.Scan(&b.ID, &b.TakenAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
