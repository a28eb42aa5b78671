package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/task"
	"github.com/Iron-Ham/kanban/internal/tui/styles"
)

// formField identifies the focused input of the task form.
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldStage
	fieldCount
)

const (
	titleCharLimit = 200
	formMinWidth   = 30
)

// taskForm edits the three client-editable fields of a task. The same form
// serves create (id empty) and edit.
type taskForm struct {
	id    task.ID
	title textinput.Model
	desc  textarea.Model
	stage task.Stage
	focus formField
	err   string
	keys  formKeyMap
}

func newTaskForm(id task.ID, d task.Draft) taskForm {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = titleCharLimit
	ti.Prompt = ""
	ti.SetValue(d.Title)

	ta := textarea.New()
	ta.Placeholder = "Optional details"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(4)
	ta.SetValue(d.Description)

	return taskForm{
		id:    id,
		title: ti,
		desc:  ta,
		stage: d.Stage,
		keys:  defaultFormKeyMap(),
	}
}

// editing reports whether the form edits an existing task.
func (f taskForm) editing() bool {
	return f.id != ""
}

// draft returns the form contents. Title and description are sent as typed;
// validation trims only to decide emptiness.
func (f taskForm) draft() task.Draft {
	return task.Draft{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Stage:       f.stage,
	}
}

// validate checks the draft locally and records the message to show.
func (f *taskForm) validate() bool {
	if err := f.draft().Validate(); err != nil {
		f.err = apperrors.UserMessage(err)
		return false
	}
	f.err = ""
	return true
}

func (f *taskForm) setWidth(w int) {
	w = max(w, formMinWidth)
	f.title.Width = w
	f.desc.SetWidth(w)
}

// focusField moves focus to field and returns the cursor command of the
// newly focused input.
func (f *taskForm) focusField(field formField) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	f.title.Blur()
	f.desc.Blur()
	switch f.focus {
	case fieldTitle:
		return f.title.Focus()
	case fieldDescription:
		return f.desc.Focus()
	}
	return nil
}

// update routes a key to the focused input. Submit and cancel are handled by
// the caller.
func (f taskForm) update(msg tea.Msg) (taskForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, f.keys.Next):
			return f, f.focusField(f.focus + 1)
		case key.Matches(km, f.keys.Prev):
			return f, f.focusField(f.focus - 1)
		}

		switch f.focus {
		case fieldTitle:
			if km.Type == tea.KeyEnter {
				return f, f.focusField(fieldDescription)
			}
		case fieldStage:
			if key.Matches(km, f.keys.Stage) {
				f.cycleStage(km.String() == "right" || km.String() == "l")
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
		if f.err != "" && strings.TrimSpace(f.title.Value()) != "" {
			f.err = ""
		}
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd
}

// cycleStage steps the stage selector, wrapping at both ends.
func (f *taskForm) cycleStage(forward bool) {
	n := task.Stage(len(task.Stages()))
	if forward {
		f.stage = (f.stage + 1) % n
	} else {
		f.stage = (f.stage + n - 1) % n
	}
}

func (f taskForm) view(s *styles.ThemedStyles) string {
	var b strings.Builder

	heading := "New task"
	if f.editing() {
		heading = "Edit task #" + f.id.String()
	}
	b.WriteString(s.Title.Render(heading))
	b.WriteString("\n\n")

	b.WriteString(f.label(s, fieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")

	b.WriteString(f.label(s, fieldDescription, "Description"))
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n\n")

	b.WriteString(f.label(s, fieldStage, "Stage"))
	b.WriteString("\n")
	options := make([]string, 0, len(task.Stages()))
	for _, st := range task.Stages() {
		style := s.StageOption
		if st == f.stage {
			style = s.StageSelected
		}
		options = append(options, style.Render(st.Title()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, options...))

	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Error.Render(f.err))
	}

	return s.Dialog.BorderForeground(s.Palette.Primary).Render(b.String())
}

func (f taskForm) label(s *styles.ThemedStyles, field formField, text string) string {
	if f.focus == field {
		return s.FormLabelFocused.Render("> " + text)
	}
	return s.FormLabel.Render("  " + text)
}
