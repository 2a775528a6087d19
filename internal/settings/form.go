// Package settings holds the Daybook settings form: four independent records
// (company profile, accounting, backup, user preferences) and the commands
// that act on them.
package settings

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	MsgSaved       = "Settings saved successfully!"
	MsgBackupDone  = "Backup completed successfully!"
	MsgResetDone   = "Company profile reset to defaults."
	MsgResetCancel = "Reset cancelled."
	ResetPrompt    = "Are you sure you want to reset all settings to defaults?"
)

// ConfirmFunc asks the user a yes/no question and reports the answer.
type ConfirmFunc func(prompt string) bool

// Form owns the four records for the lifetime of one settings view.
// It is not safe for concurrent use.
type Form struct {
	s     Settings
	log   *zap.Logger
	store Store
	now   func() time.Time
}

type Option func(*Form)

// WithLogger sets the diagnostic channel Save writes to.
func WithLogger(l *zap.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.log = l
		}
	}
}

// WithStore attaches persistence. Save then writes through to it.
func WithStore(st Store) Option {
	return func(f *Form) { f.store = st }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}

// WithSettings seeds the form with s instead of the defaults.
func WithSettings(s Settings) Option {
	return func(f *Form) { f.s = s }
}

// NewForm returns a form holding the default records.
func NewForm(opts ...Option) *Form {
	f := &Form{
		s:   Defaults(),
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load replaces the records with the store's copy. Without a store it does
// nothing.
func (f *Form) Load(ctx context.Context) error {
	if f.store == nil {
		return nil
	}
	s, err := f.store.Load(ctx)
	if err != nil {
		return &StorageError{Op: "load", Err: err}
	}
	f.s = s
	return nil
}

// HasStore reports whether Save persists anything.
func (f *Form) HasStore() bool { return f.store != nil }

// Snapshot returns a copy of the aggregate.
func (f *Form) Snapshot() Settings { return f.s }

// Get renders one field as text.
func (f *Form) Get(ref FieldRef) (string, error) {
	fd, err := Lookup(ref)
	if err != nil {
		return "", err
	}
	return fd.get(&f.s), nil
}

// Set replaces exactly one field. raw is parsed according to the field's
// kind; values outside the documented domain are accepted as given.
func (f *Form) Set(ref FieldRef, raw string) error {
	if err := Apply(&f.s, ref, raw); err != nil {
		return err
	}
	f.log.Debug("field set", zap.Stringer("field", ref), zap.String("value", raw))
	return nil
}

// BackupFrequencyEnabled reports whether the frequency control accepts
// input. It follows auto-backup and is never stored.
func (f *Form) BackupFrequencyEnabled() bool { return f.s.Backup.AutoBackup }

// Save writes the aggregate to the diagnostic log and, when a store is
// attached, persists it. Without a store it cannot fail.
func (f *Form) Save(ctx context.Context) (string, error) {
	f.log.Info("settings saved",
		zap.Any("company", f.s.Company),
		zap.Any("accounting", f.s.Accounting),
		zap.Any("backup", f.s.Backup),
		zap.Any("user", f.s.User),
	)
	if f.store != nil {
		if err := f.store.Save(ctx, f.s); err != nil {
			return "", &StorageError{Op: "save", Err: err}
		}
	}
	return MsgSaved, nil
}

// BackupNow stamps backup.lastBackup with the current time. No data is
// copied anywhere; a store that keeps history gets an entry.
func (f *Form) BackupNow(ctx context.Context) (string, error) {
	at := f.now()
	f.s.Backup.LastBackup = at
	f.log.Info("backup recorded", zap.Time("at", at))
	if rec, ok := f.store.(BackupRecorder); ok {
		if err := rec.RecordBackup(ctx, at); err != nil {
			return "", &StorageError{Op: "record backup", Err: err}
		}
	}
	return MsgBackupDone, nil
}

// Reset restores the company profile after confirm agrees. Accounting,
// backup and user records are left as they are. A nil confirm declines.
func (f *Form) Reset(confirm ConfirmFunc) bool {
	if confirm == nil || !confirm(ResetPrompt) {
		return false
	}
	f.s.Company = DefaultCompany()
	f.log.Info("company profile reset")
	return true
}
