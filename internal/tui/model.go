package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/kanban/internal/board"
	"github.com/Iron-Ham/kanban/internal/logging"
	"github.com/Iron-Ham/kanban/internal/task"
	"github.com/Iron-Ham/kanban/internal/tui/styles"
)

// mode is the current interaction mode of the board.
type mode int

const (
	modeBrowse  mode = iota // Navigating cards
	modeForm                // Creating or editing a task
	modeConfirm             // Waiting for a delete confirmation
)

// Option configures a Model.
type Option func(*Model)

// WithTheme selects the color theme. Unknown names fall back to the default.
func WithTheme(name string) Option {
	return func(m *Model) {
		m.styles = styles.ForTheme(name)
	}
}

// WithConfirmDelete controls whether deleting asks for confirmation first.
func WithConfirmDelete(on bool) Option {
	return func(m *Model) {
		m.confirmDelete = on
	}
}

// WithLogger sets the logger for presentation events.
func WithLogger(l *logging.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithContext sets the context passed to every board operation.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// Model is the bubbletea model of the board. All remote work is delegated to
// the Manager through commands; the model only renders the latest snapshot.
type Model struct {
	ctx     context.Context
	manager *board.Manager
	logger  *logging.Logger
	styles  *styles.ThemedStyles

	keys        keyMap
	confirmKeys confirmKeyMap
	help        help.Model
	spinner     spinner.Model

	confirmDelete bool
	mode          mode
	form          taskForm
	pending       task.Task // delete candidate in modeConfirm

	snap     board.Snapshot
	col, row int
	inflight int

	width, height int
	quitting      bool
}

// NewModel creates a board model. The first refresh is issued by Init, so the
// model starts out busy.
func NewModel(manager *board.Manager, opts ...Option) Model {
	m := Model{
		ctx:           context.Background(),
		manager:       manager,
		logger:        logging.NopLogger(),
		styles:        styles.ForTheme(string(styles.ThemeDefault)),
		keys:          defaultKeyMap(),
		confirmKeys:   defaultConfirmKeyMap(),
		help:          help.New(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		confirmDelete: true,
		snap:          manager.Snapshot(),
		inflight:      1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.logger = m.logger.WithComponent("tui")
	m.applyStyles()
	return m
}

// Init loads the board.
func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctx, m.manager), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.form.setWidth(m.formWidth())
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ThemeChangedMsg:
		if msg.Theme != string(m.styles.Name) {
			m.styles = styles.ForTheme(msg.Theme)
			m.applyStyles()
			m.logger.Info("theme changed", "theme", string(m.styles.Name))
		}
		return m, nil

	case opResultMsg:
		return m.handleResult(msg), nil

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.handleFormKey(msg)
		case modeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleBrowseKey(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy() && m.keys.mutates(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Dismiss):
		m.manager.ClearErr()
		m.snap.Err = ""

	case key.Matches(msg, m.keys.Left):
		m.selectColumn(m.col - 1)

	case key.Matches(msg, m.keys.Right):
		m.selectColumn(m.col + 1)

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, m.keys.Down):
		if m.row < len(m.column().Tasks)-1 {
			m.row++
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.start(refreshCmd(m.ctx, m.manager))

	case key.Matches(msg, m.keys.New):
		return m, m.openForm("", task.Draft{Stage: m.column().Stage})

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			return m, m.openForm(t.ID, t.Draft())
		}

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.confirmDelete {
			m.pending = t
			m.mode = modeConfirm
			return m, nil
		}
		return m, m.start(deleteCmd(m.ctx, m.manager, t.ID))

	case key.Matches(msg, m.keys.Back):
		return m, m.move(task.Backward)

	case key.Matches(msg, m.keys.Forward):
		return m, m.move(task.Forward)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.form.keys.Cancel):
		m.closeForm()
		return m, nil

	case key.Matches(msg, m.form.keys.Submit):
		if m.busy() {
			return m, nil
		}
		if !m.form.validate() {
			return m, nil
		}
		d := m.form.draft()
		if m.form.editing() {
			return m, m.start(updateCmd(m.ctx, m.manager, m.form.id, d))
		}
		return m, m.start(createCmd(m.ctx, m.manager, d))
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confirmKeys.Yes):
		id := m.pending.ID
		m.mode = modeBrowse
		m.pending = task.Task{}
		return m, m.start(deleteCmd(m.ctx, m.manager, id))

	case key.Matches(msg, m.confirmKeys.No):
		m.mode = modeBrowse
		m.pending = task.Task{}
	}
	return m, nil
}

// handleResult takes a fresh snapshot after an operation. The cursor follows
// the affected task when the store accepted the change and the task is on the
// board.
func (m Model) handleResult(msg opResultMsg) Model {
	if m.inflight > 0 {
		m.inflight--
	}
	if msg.err != nil {
		m.logger.Debug("operation finished with error", "op", msg.op, "error", msg.err.Error())
	}

	selected, _ := m.selected()
	m.snap = m.manager.Snapshot()

	follow := selected.ID
	if msg.id != "" && msg.applied {
		follow = msg.id
	}
	m.locate(follow)

	// A save the store accepted closes the form even when the reload failed;
	// submitting again would create the task twice.
	if m.mode == modeForm && msg.applied && (msg.op == board.OpCreate || msg.op == board.OpUpdate) {
		m.closeForm()
	}
	return m
}

// start marks an operation in flight and runs cmd. The banner is cleared
// because the Manager clears its error when the operation begins.
func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.snap.Err = ""
	m.inflight++
	if m.inflight == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

func (m *Model) move(dir task.Direction) tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	if _, ok := dir.Target(t.Stage); !ok {
		return nil
	}
	return m.start(moveCmd(m.ctx, m.manager, t, dir))
}

func (m *Model) openForm(id task.ID, d task.Draft) tea.Cmd {
	m.form = newTaskForm(id, d)
	m.form.setWidth(m.formWidth())
	m.mode = modeForm
	return m.form.focusField(fieldTitle)
}

func (m *Model) closeForm() {
	m.form = taskForm{}
	m.mode = modeBrowse
}

func (m *Model) applyStyles() {
	m.spinner.Style = m.styles.Busy
	m.help.Styles.ShortKey = m.styles.HelpKey
	m.help.Styles.FullKey = m.styles.HelpKey
	m.help.Styles.ShortDesc = m.styles.Muted
	m.help.Styles.FullDesc = m.styles.Muted
}

func (m Model) busy() bool {
	return m.inflight > 0
}

func (m Model) column() board.Column {
	return m.snap.Columns.Stage(task.Stages()[m.col])
}

func (m Model) selected() (task.Task, bool) {
	col := m.column()
	if m.row < 0 || m.row >= len(col.Tasks) {
		return task.Task{}, false
	}
	return col.Tasks[m.row], true
}

func (m *Model) selectColumn(c int) {
	n := len(task.Stages())
	m.col = min(max(c, 0), n-1)
	m.clampRow()
}

func (m *Model) clampRow() {
	m.row = min(m.row, len(m.column().Tasks)-1)
	m.row = max(m.row, 0)
}

// locate moves the cursor onto id, or keeps it in place when id is gone.
func (m *Model) locate(id task.ID) {
	if id != "" {
		for c, col := range m.snap.Columns {
			for r, t := range col.Tasks {
				if t.ID == id {
					m.col, m.row = c, r
					return
				}
			}
		}
	}
	m.clampRow()
}

func (m Model) formWidth() int {
	if m.width == 0 {
		return formMinWidth
	}
	return min(m.width-8, 72)
}
