package settings

import (
	"context"
	"time"
)

// Store persists the aggregate. A form without a store keeps everything in
// memory and its commands only simulate their effects.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// BackupRecorder is implemented by stores that keep a backup history.
type BackupRecorder interface {
	RecordBackup(ctx context.Context, at time.Time) error
}
