package repository

import "time"

// SettingRow is one stored field value, keyed by section and field name.
type SettingRow struct {
	Section   string
	Field     string
	Value     string
	UpdatedAt time.Time
}

// BackupEntry represents a backup_history row.
type BackupEntry struct {
	ID      string
	TakenAt time.Time
}
