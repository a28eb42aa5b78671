package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/kanban/internal/board"
	"github.com/Iron-Ham/kanban/internal/task"
	"github.com/Iron-Ham/kanban/internal/util"
)

// descriptionWidth bounds the description column of `kanban list`.
const descriptionWidth = 48

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
var terminalWidth = func() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func newListCmd() *cobra.Command {
	var stageFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks grouped by stage",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, stageFlag)
		},
	}
	cmd.Flags().StringVarP(&stageFlag, "stage", "s", "", "only list tasks in this stage (todo, in_progress, done)")
	return cmd
}

func runList(cmd *cobra.Command, stageFlag string) error {
	var only *task.Stage
	if stageFlag != "" {
		st, err := task.ParseStage(stageFlag)
		if err != nil {
			return err
		}
		only = &st
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.manager.Refresh(cmd.Context()); err != nil {
		return err
	}

	var cols board.Columns
	for _, col := range s.manager.Columns() {
		if only == nil || col.Stage == *only {
			cols = append(cols, col)
		}
	}

	out := cmd.OutOrStdout()
	if cols.Count() == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	fmt.Fprintln(out, renderTaskTable(cols, terminalWidth()))

	counts := make([]string, 0, len(cols))
	for _, col := range cols {
		counts = append(counts, fmt.Sprintf("%d %s", len(col.Tasks), col.Stage))
	}
	fmt.Fprintf(out, "%d tasks (%s)\n", cols.Count(), strings.Join(counts, ", "))
	return nil
}

// renderTaskTable renders cols as one table in stage order. A positive width
// caps the row length.
func renderTaskTable(cols board.Columns, width int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Stage", "Title", "Description"})

	for _, col := range cols {
		for _, t := range col.Tasks {
			tw.AppendRow(table.Row{t.ID.String(), t.Stage.String(), t.Title, util.Summary(t.Description, descriptionWidth)})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	if width > 0 {
		tw.SetAllowedRowLength(width)
	}
	return tw.Render()
}
