package board

import "github.com/Iron-Ham/kanban/internal/task"

// Column is the ordered subsequence of the working set that shares one stage.
type Column struct {
	Stage task.Stage
	Tasks []task.Task
}

// Columns holds one Column per stage, in stage order.
type Columns []Column

// Partition splits tasks into one column per stage. Each column keeps the
// relative order of the input and every valid task lands in exactly one
// column. It has no side effects and is cheap enough to call on every render.
func Partition(tasks []task.Task) Columns {
	stages := task.Stages()
	cols := make(Columns, len(stages))
	for i, s := range stages {
		cols[i] = Column{Stage: s, Tasks: []task.Task{}}
	}
	for _, t := range tasks {
		if !t.Stage.Valid() {
			continue
		}
		cols[t.Stage].Tasks = append(cols[t.Stage].Tasks, t)
	}
	return cols
}

// Stage returns the column for s.
func (c Columns) Stage(s task.Stage) Column {
	for _, col := range c {
		if col.Stage == s {
			return col
		}
	}
	return Column{Stage: s, Tasks: []task.Task{}}
}

// Count returns the number of tasks across all columns.
func (c Columns) Count() int {
	n := 0
	for _, col := range c {
		n += len(col.Tasks)
	}
	return n
}
