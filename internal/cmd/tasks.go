package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/task"
)

// stdinIsTerminal reports whether confirmation prompts can be answered.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newAddCmd() *cobra.Command {
	var description, stageFlag string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long: `Create a task. Words after "add" form the title.

Examples:
  kanban add Write release notes
  kanban add "Fix login" -d "Happens on Safari only" -s in_progress`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := task.ParseStage(stageFlag)
			if err != nil {
				return err
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			draft := task.Draft{
				Title:       strings.Join(args, " "),
				Description: description,
				Stage:       stage,
			}
			created, err := s.manager.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task #%s: %s (%s)\n", created.ID, created.Title, created.Stage)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&stageFlag, "stage", "s", task.StageTodo.String(), "initial stage (todo, in_progress, done)")
	return cmd
}

func newEditCmd() *cobra.Command {
	var title, description, stageFlag string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, description or stage",
		Long: `Change a task. Fields without a flag keep their current value; the
result replaces the task on the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("description") && !flags.Changed("stage") {
				return errors.New("nothing to change: pass --title, --description or --stage")
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			current, err := heldTask(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			draft := current.Draft()
			if flags.Changed("title") {
				draft.Title = title
			}
			if flags.Changed("description") {
				draft.Description = description
			}
			if flags.Changed("stage") {
				if draft.Stage, err = task.ParseStage(stageFlag); err != nil {
					return err
				}
			}

			if err := s.manager.Update(cmd.Context(), current.ID, draft); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%s\n", current.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&stageFlag, "stage", "s", "", "new stage (todo, in_progress, done)")
	return cmd
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> forward|backward",
		Short: "Move a task one stage forward or backward",
		Long: `Move a task one stage along todo -> in_progress -> done.

Moving forward from done or backward from todo does nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := task.ParseDirection(args[1])
			if err != nil {
				return err
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			current, err := heldTask(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			moved, err := s.manager.Move(cmd.Context(), current, dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !moved {
				fmt.Fprintf(out, "Task #%s is already at %s\n", current.ID, current.Stage)
				return nil
			}
			after, _ := s.manager.Task(current.ID)
			fmt.Fprintf(out, "Moved task #%s to %s\n", current.ID, after.Stage)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Long: `Delete a task. When stdin is a terminal and board.confirm_delete is set,
asks for confirmation first; --yes skips the question.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			id := task.ID(args[0])
			label := "#" + id.String()
			if err := s.manager.Refresh(cmd.Context()); err != nil {
				return err
			}
			if t, ok := s.manager.Task(id); ok {
				label = fmt.Sprintf("#%s %q", id, t.Title)
			}

			out := cmd.OutOrStdout()
			if !yes && s.cfg.Board.ConfirmDelete && stdinIsTerminal() {
				err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete task %s?", label))
				if errors.Is(err, apperrors.ErrCanceled) {
					fmt.Fprintln(out, "Canceled.")
					return nil
				}
				if err != nil {
					return err
				}
			}

			if err := s.manager.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted task %s\n", label)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// heldTask loads the board and returns task id from it.
func heldTask(ctx context.Context, s *session, id string) (task.Task, error) {
	if err := s.manager.Refresh(ctx); err != nil {
		return task.Task{}, err
	}
	t, ok := s.manager.Task(task.ID(id))
	if !ok {
		return task.Task{}, fmt.Errorf("%w: #%s", apperrors.ErrTaskNotFound, id)
	}
	return t, nil
}

// confirm asks a yes/no question. Anything but y or yes is a refusal and
// yields ErrCanceled.
func confirm(in io.Reader, out io.Writer, question string) error {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return apperrors.ErrCanceled
	}
}
