package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/daybook/internal/settings"
)

var errNoStore = errors.New("no settings store configured (set storage.driver to sqlite or file)")

func (e *env) showCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print all four settings records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := e.openForm(cmd.Context())
			if err != nil {
				return err
			}
			snap := form.Snapshot()
			out := cmd.OutOrStdout()
			switch strings.ToLower(output) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			case "yaml", "yml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(snap); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown output %q: want json or yaml", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func (e *env) fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List every field reference with its kind and documented domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("FIELD", "LABEL", "KIND", "DOMAIN")
			for _, f := range settings.Fields() {
				t.Row(f.Ref.String(), f.Label, string(f.Kind), f.Domain)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}

func (e *env) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <section.field>",
		Short: "Print one field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := settings.ParseRef(args[0])
			if err != nil {
				return err
			}
			form, err := e.openForm(cmd.Context())
			if err != nil {
				return err
			}
			v, err := form.Get(ref)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
}

func (e *env) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <section.field> <value>",
		Short: "Change one field and save it to the configured store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := settings.ParseRef(args[0])
			if err != nil {
				return err
			}
			form, err := e.openForm(cmd.Context())
			if err != nil {
				return err
			}
			if !form.HasStore() {
				return errNoStore
			}
			if err := form.Set(ref, args[1]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if verr := settings.ValidateField(form.Snapshot(), ref); verr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", verr)
			}
			msg, err := form.Save(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, msg)
			return err
		},
	}
}

func (e *env) exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write daybook-settings-<date>.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := e.openForm(cmd.Context())
			if err != nil {
				return err
			}
			if dir == "" {
				dir = e.cfg.Export.Dir
			}
			path, err := form.Export(dir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write into (default export.dir)")
	return cmd
}

func (e *env) backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Stamp the last-backup time (Backup Now)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := e.openForm(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := form.BackupNow(cmd.Context())
			if err != nil {
				return err
			}
			if form.HasStore() {
				if _, err := form.Save(cmd.Context()); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
}

func (e *env) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded backups (sqlite store only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.openForm(cmd.Context()); err != nil {
				return err
			}
			if e.sql == nil {
				return errNoStore
			}
			entries, err := e.sql.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			loc := e.location()
			for _, b := range entries {
				fmt.Fprintf(out, "%s  %s\n", b.TakenAt.In(loc).Format(time.RFC3339), b.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries (0 = all)")
	return cmd
}

func (e *env) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the company profile to its defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := e.openForm(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			confirm := promptConfirm(cmd.InOrStdin(), out)
			if yes {
				confirm = func(string) bool { return true }
			}
			if !form.Reset(confirm) {
				_, err := fmt.Fprintln(out, settings.MsgResetCancel)
				return err
			}
			if form.HasStore() {
				if _, err := form.Save(cmd.Context()); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(out, settings.MsgResetDone)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (e *env) purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored setting and the backup history (sqlite store only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.openForm(cmd.Context()); err != nil {
				return err
			}
			if e.maint == nil {
				return errNoStore
			}
			if err := e.maint.Purge(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Stored settings purged.")
			return err
		},
	}
}

// promptConfirm asks on out and reads a y/N answer from in.
func promptConfirm(in io.Reader, out io.Writer) settings.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
