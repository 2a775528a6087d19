package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/daybook/internal/config"
	"github.com/jask/daybook/internal/database"
	"github.com/jask/daybook/internal/logging"
	"github.com/jask/daybook/internal/prefs"
	"github.com/jask/daybook/internal/service"
	"github.com/jask/daybook/internal/settings"
	"github.com/jask/daybook/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, e := newRootCmd()
	if err := execute(ctx, root, e); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is the state shared by every command once PersistentPreRunE has run.
type env struct {
	configPath string
	verbose    bool

	cfg     config.Config
	logger  *zap.Logger
	sql     *service.SQLStore
	maint   *service.MaintenanceService
	closers []func() error
}

// execute runs root and releases what its commands opened, whether or not
// they failed. cobra skips PersistentPostRun after an error.
func execute(ctx context.Context, root *cobra.Command, e *env) error {
	defer e.teardown()
	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}
	root := &cobra.Command{
		Use:   "daybook",
		Short: "Daybook bookkeeping settings",
		Long: `daybook edits the settings of a set of Daybook books: company profile,
accounting preferences, backup configuration and user preferences.

Run without arguments to open the settings screen.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runInteractive(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default ~/.config/daybook/config.toml)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		e.showCmd(),
		e.fieldsCmd(),
		e.getCmd(),
		e.setCmd(),
		e.exportCmd(),
		e.backupCmd(),
		e.historyCmd(),
		e.resetCmd(),
		e.purgeCmd(),
	)
	return root, e
}

func (e *env) setup() error {
	path := e.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	e.cfg = cfg

	logger, err := logging.New(cfg.Log, e.verbose)
	if err != nil {
		return err
	}
	e.logger = logger
	e.logger.Debug("config loaded", zap.String("path", path), zap.String("storage", cfg.Storage.Driver))
	return nil
}

func (e *env) teardown() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
	e.closers = nil
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

// store opens the configured settings store, or returns nil for driver none.
func (e *env) store(ctx context.Context) (settings.Store, error) {
	switch e.cfg.Storage.Driver {
	case config.DriverSQLite:
		path := e.cfg.Storage.Path
		if path == "" {
			path = filepath.Join(config.DataDir(), "daybook.db")
		}
		db, err := database.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		e.closers = append(e.closers, db.Close)
		e.sql = service.NewSQLStore(db, e.logger)
		e.maint = &service.MaintenanceService{DB: db}
		return e.sql, nil
	case config.DriverFile:
		path := e.cfg.Storage.Path
		if path == "" {
			p, err := prefs.DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("settings file: %w", err)
			}
			path = p
		}
		return prefs.FileStore{Path: path}, nil
	default:
		return nil, nil
	}
}

// openForm builds the settings form, loading it from the store if one is
// configured.
func (e *env) openForm(ctx context.Context) (*settings.Form, error) {
	opts := []settings.Option{settings.WithLogger(e.logger)}
	st, err := e.store(ctx)
	if err != nil {
		return nil, err
	}
	if st != nil {
		opts = append(opts, settings.WithStore(st))
	}
	form := settings.NewForm(opts...)
	if err := form.Load(ctx); err != nil {
		return nil, err
	}
	return form, nil
}

func (e *env) location() *time.Location {
	loc, err := time.LoadLocation(e.cfg.UI.Timezone)
	if err != nil {
		e.logger.Warn("using local timezone", zap.String("timezone", e.cfg.UI.Timezone), zap.Error(err))
		return time.Local
	}
	return loc
}

func (e *env) runInteractive(ctx context.Context) error {
	form, err := e.openForm(ctx)
	if err != nil {
		return err
	}
	app := tui.New(ctx, form, tui.Options{
		ExportDir: e.cfg.Export.Dir,
		Timezone:  e.location(),
		Logger:    e.logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("settings screen: %w", err)
	}
	return nil
}
