package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/daybook/internal/database"
	"github.com/jask/daybook/internal/database/repository"
	"github.com/jask/daybook/internal/settings"
)

// SQLStore keeps settings as one row per field in sqlite and records
// backup history. It implements settings.Store and settings.BackupRecorder.
type SQLStore struct {
	DB       *sql.DB
	Settings *repository.SettingRepo
	Backups  *repository.BackupRepo
	Log      *zap.Logger
}

func NewSQLStore(db *sql.DB, log *zap.Logger) *SQLStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLStore{
		DB:       db,
		Settings: repository.NewSettingRepo(db),
		Backups:  repository.NewBackupRepo(db),
		Log:      log,
	}
}

// Load starts from the defaults and applies every stored row. Rows naming
// fields that no longer exist are skipped.
func (s *SQLStore) Load(ctx context.Context) (settings.Settings, error) {
	out := settings.Defaults()
	rows, err := s.Settings.List(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("list settings: %w", err)
	}
	for _, row := range rows {
		ref := settings.FieldRef{Section: settings.Section(row.Section), Name: row.Field}
		if err := settings.Apply(&out, ref, row.Value); err != nil {
			if errors.Is(err, settings.ErrUnknownField) {
				s.Log.Warn("skipping stored setting", zap.Stringer("field", ref))
				continue
			}
			return settings.Settings{}, fmt.Errorf("apply %s: %w", ref, err)
		}
	}
	return out, nil
}

// Save writes every field in one transaction.
func (s *SQLStore) Save(ctx context.Context, v settings.Settings) error {
	fields := settings.Fields()
	rows := make([]repository.SettingRow, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, repository.SettingRow{
			Section: string(f.Ref.Section),
			Field:   f.Ref.Name,
			Value:   f.Get(&v),
		})
	}
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return s.Settings.UpsertAll(ctx, tx, rows)
	})
}

// RecordBackup appends a backup_history entry.
func (s *SQLStore) RecordBackup(ctx context.Context, at time.Time) error {
	return s.Backups.Insert(ctx, repository.BackupEntry{ID: uuid.NewString(), TakenAt: at.UTC()})
}

// History lists recorded backups, newest first.
func (s *SQLStore) History(ctx context.Context, limit int) ([]repository.BackupEntry, error) {
	return s.Backups.List(ctx, limit)
}
