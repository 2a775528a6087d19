package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/daybook/internal/settings"
)

var backupFrequency = settings.FieldRef{Section: settings.SectionBackup, Name: "backupFrequency"}

// App is the settings screen.
type App struct {
	ctx       context.Context
	form      *settings.Form
	log       *zap.Logger
	exportDir string
	tz        *time.Location

	fields []settings.Field
	cursor int
	modal  modalState
	input  textinput.Model
	// editing is non-nil while the inline editor is open.
	editing *settings.FieldRef
	status  string
	warning string

	keys keyMap
	help help.Model
}

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmReset modalState = "confirmReset"
)

// Options configures New.
type Options struct {
	ExportDir string
	Timezone  *time.Location
	Logger    *zap.Logger
}

func New(ctx context.Context, form *settings.Form, opts Options) *App {
	if opts.Timezone == nil {
		opts.Timezone = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 0
	return &App{
		ctx:       ctx,
		form:      form,
		log:       opts.Logger,
		exportDir: opts.ExportDir,
		tz:        opts.Timezone,
		fields:    settings.Fields(),
		input:     in,
		keys:      defaultKeys(),
		help:      help.New(),
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.help.Width = m.Width
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.editing != nil {
			return a.handleEditKey(m)
		}
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(a.fields)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Section):
		a.nextSection()
	case key.Matches(m, a.keys.Edit):
		return a, a.beginEdit()
	case key.Matches(m, a.keys.Toggle):
		a.toggle()
	case key.Matches(m, a.keys.Prev):
		a.cycle(-1)
	case key.Matches(m, a.keys.Next):
		a.cycle(1)
	case key.Matches(m, a.keys.Save):
		a.save()
	case key.Matches(m, a.keys.Export):
		a.export()
	case key.Matches(m, a.keys.Backup):
		a.backupNow()
	case key.Matches(m, a.keys.Reset):
		a.modal = modalConfirmReset
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmReset:
		var answer bool
		switch {
		case key.Matches(m, a.keys.Quit):
			a.modal = modalNone
			return a, tea.Quit
		case key.Matches(m, a.keys.Confirm):
			answer = true
		case key.Matches(m, a.keys.Cancel):
		default:
			return a, nil
		}
		a.modal = modalNone
		a.warning = ""
		if a.form.Reset(func(string) bool { return answer }) {
			a.status = settings.MsgResetDone
		} else {
			a.status = settings.MsgResetCancel
		}
	}
	return a, nil
}

func (a *App) handleEditKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.closeEditor()
		return a, nil
	case tea.KeyEnter:
		ref := *a.editing
		value := a.input.Value()
		a.closeEditor()
		a.apply(ref, value)
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) current() settings.Field { return a.fields[a.cursor] }

func (a *App) nextSection() {
	sec := a.current().Ref.Section
	for i := 1; i <= len(a.fields); i++ {
		j := (a.cursor + i) % len(a.fields)
		if a.fields[j].Ref.Section != sec {
			a.cursor = j
			return
		}
	}
}

// disabled reports whether the control for f currently refuses input.
func (a *App) disabled(f settings.Field) bool {
	return f.Ref == backupFrequency && !a.form.BackupFrequencyEnabled()
}

func (a *App) refuseDisabled(f settings.Field) bool {
	if !a.disabled(f) {
		return false
	}
	a.status = f.Label + " is disabled while automatic backup is off"
	return true
}

func (a *App) beginEdit() tea.Cmd {
	f := a.current()
	if a.refuseDisabled(f) {
		return nil
	}
	switch {
	case f.Kind == settings.KindBool:
		a.toggle()
		return nil
	case len(f.Choices) > 0:
		a.cycle(1)
		return nil
	}
	value, err := a.form.Get(f.Ref)
	if err != nil {
		a.status = "error: " + err.Error()
		return nil
	}
	ref := f.Ref
	a.editing = &ref
	a.input.SetValue(value)
	a.input.CursorEnd()
	return a.input.Focus()
}

func (a *App) closeEditor() {
	a.editing = nil
	a.input.Blur()
	a.input.Reset()
}

func (a *App) toggle() {
	f := a.current()
	if f.Kind != settings.KindBool || a.refuseDisabled(f) {
		return
	}
	cur, err := a.form.Get(f.Ref)
	if err != nil {
		a.status = "error: " + err.Error()
		return
	}
	b, _ := strconv.ParseBool(cur)
	a.apply(f.Ref, strconv.FormatBool(!b))
}

func (a *App) cycle(delta int) {
	f := a.current()
	if len(f.Choices) == 0 || a.refuseDisabled(f) {
		return
	}
	cur, err := a.form.Get(f.Ref)
	if err != nil {
		a.status = "error: " + err.Error()
		return
	}
	n := len(f.Choices)
	idx := slices.Index(f.Choices, cur)
	switch {
	case idx < 0 && delta < 0:
		idx = n - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + n) % n
	}
	a.apply(f.Ref, f.Choices[idx])
}

func (a *App) apply(ref settings.FieldRef, value string) {
	if err := a.form.Set(ref, value); err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.status = ""
	a.warning = ""
	if verr := settings.ValidateField(a.form.Snapshot(), ref); verr != nil {
		a.warning = "warning: " + verr.Error()
	}
}

func (a *App) save() {
	msg, err := a.form.Save(a.ctx)
	if err != nil {
		a.log.Error("save failed", zap.Error(err))
		a.status = "error: " + err.Error()
		return
	}
	a.status = msg
}

func (a *App) export() {
	path, err := a.form.Export(a.exportDir)
	if err != nil {
		a.log.Error("export failed", zap.Error(err))
		a.status = "error: " + err.Error()
		return
	}
	a.status = "Exported settings to " + path
}

func (a *App) backupNow() {
	msg, err := a.form.BackupNow(a.ctx)
	if err != nil {
		a.log.Error("backup failed", zap.Error(err))
		a.status = "error: " + err.Error()
		return
	}
	a.status = msg
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Daybook Settings"))
	b.WriteString("\n")

	var section settings.Section
	for i, f := range a.fields {
		if f.Ref.Section != section {
			section = f.Ref.Section
			b.WriteString("\n" + sectionStyle.Render(section.Title()) + "\n")
		}
		b.WriteString(a.renderRow(i, f))
		b.WriteString("\n")
	}

	if a.modal != modalNone {
		b.WriteString("\n" + a.renderModal() + "\n")
	}
	if a.warning != "" {
		b.WriteString("\n" + warnStyle.Render(a.warning))
	}
	if a.status != "" {
		b.WriteString("\n" + statusStyle.Render(a.status))
	}
	b.WriteString("\n" + a.help.View(a.keys))
	return b.String()
}

func (a *App) renderRow(i int, f settings.Field) string {
	marker := "  "
	if i == a.cursor {
		marker = cursorStyle.Render("▶ ")
	}
	label := labelStyle.Render(f.Label)
	if a.editing != nil && *a.editing == f.Ref {
		return marker + label + a.input.View()
	}
	value := a.renderValue(f)
	if a.disabled(f) {
		return marker + dimStyle.Render(labelStyle.Render(f.Label)+value+" (disabled)")
	}
	return marker + label + value
}

func (a *App) renderValue(f settings.Field) string {
	raw, err := a.form.Get(f.Ref)
	if err != nil {
		return "?"
	}
	switch {
	case f.Kind == settings.KindBool:
		if raw == "true" {
			return "[x]"
		}
		return "[ ]"
	case len(f.Choices) > 0:
		return "‹ " + raw + " ›"
	case f.Kind == settings.KindTime:
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return raw
		}
		return t.In(a.tz).Format("2006-01-02 15:04 MST")
	}
	return raw
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmReset:
		return modalStyle.Render(titleStyle.Render("Reset settings?") + fmt.Sprintf("\n%s\n[y] Yes  [n] No", settings.ResetPrompt))
	default:
		return ""
	}
}
