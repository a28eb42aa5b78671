package task

import (
	"fmt"
	"strings"
)

// Stage is the lifecycle stage of a task. Stages are totally ordered:
// StageTodo < StageInProgress < StageDone. The zero value is StageTodo.
type Stage uint8

const (
	StageTodo Stage = iota
	StageInProgress
	StageDone
)

// legacyInProgress is the spelling the first task server used on the wire.
const legacyInProgress = "progress"

var stageNames = [...]string{
	StageTodo:       "todo",
	StageInProgress: "in_progress",
	StageDone:       "done",
}

var stageTitles = [...]string{
	StageTodo:       "To Do",
	StageInProgress: "In Progress",
	StageDone:       "Done",
}

// Stages returns every stage in order.
func Stages() []Stage {
	return []Stage{StageTodo, StageInProgress, StageDone}
}

// ParseStage converts a wire value into a Stage.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return StageTodo, nil
	case "in_progress", legacyInProgress:
		return StageInProgress, nil
	case "done":
		return StageDone, nil
	default:
		return StageTodo, fmt.Errorf("invalid stage %q", s)
	}
}

// Valid reports whether s is one of the three defined stages.
func (s Stage) Valid() bool {
	return s <= StageDone
}

// String returns the wire value of the stage.
func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
	return stageNames[s]
}

// Title returns the column heading for the stage.
func (s Stage) Title() string {
	if !s.Valid() {
		return s.String()
	}
	return stageTitles[s]
}

// Next returns the stage that follows s. The second result is false when s is
// StageDone, which has no forward transition.
func (s Stage) Next() (Stage, bool) {
	if !s.Valid() || s == StageDone {
		return s, false
	}
	return s + 1, true
}

// Previous returns the stage before s. The second result is false when s is
// StageTodo, which has no backward transition.
func (s Stage) Previous() (Stage, bool) {
	if !s.Valid() || s == StageTodo {
		return s, false
	}
	return s - 1, true
}

// MarshalText writes the wire value; undefined stages are an error.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stage %d", uint8(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText parses a wire value with ParseStage.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Direction is the direction of a one-step stage transition.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

// ParseDirection accepts "forward"/"backward" and the short forms used by the CLI.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "fwd", "next", "f":
		return Forward, nil
	case "backward", "back", "prev", "b":
		return Backward, nil
	default:
		return Forward, fmt.Errorf("invalid direction %q", s)
	}
}

// String returns "forward" or "backward".
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Target applies the transition rule: exactly one step in direction d. The
// second result is false when no transition exists from s.
func (d Direction) Target(s Stage) (Stage, bool) {
	switch d {
	case Forward:
		return s.Next()
	case Backward:
		return s.Previous()
	default:
		return s, false
	}
}
