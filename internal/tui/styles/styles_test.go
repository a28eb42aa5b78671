package styles

import (
	"testing"

	"github.com/Iron-Ham/kanban/internal/config"
	"github.com/Iron-Ham/kanban/internal/task"
)

func TestAvailableThemes_MatchConfig(t *testing.T) {
	got := AvailableThemes()
	want := config.ValidThemes()
	if len(got) != len(want) {
		t.Fatalf("AvailableThemes() = %v, config.ValidThemes() = %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("theme[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsValidTheme(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"default", true},
		{"nord", true},
		{"dracula", true},
		{"mono", true},
		{"monokai", false},
		{"", false},
		{"Nord", false},
	}
	for _, tt := range tests {
		if got := IsValidTheme(tt.name); got != tt.want {
			t.Errorf("IsValidTheme(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetPalette(t *testing.T) {
	for _, name := range AvailableThemes() {
		p := GetPalette(ThemeName(name))
		if p == nil {
			t.Fatalf("GetPalette(%q) returned nil", name)
		}
		if p.Primary == "" || p.Text == "" || p.Error == "" {
			t.Errorf("palette %q has empty core colors: %+v", name, p)
		}
	}

	if GetPalette("unknown").Primary != DefaultPalette().Primary {
		t.Error("unknown theme should fall back to the default palette")
	}
}

func TestForTheme(t *testing.T) {
	s := ForTheme("dracula")
	if s.Name != ThemeDracula {
		t.Errorf("Name = %q, want dracula", s.Name)
	}
	if s.Palette.Primary != DraculaPalette().Primary {
		t.Errorf("Primary = %v, want dracula purple", s.Palette.Primary)
	}

	if got := ForTheme("nope").Name; got != ThemeDefault {
		t.Errorf("ForTheme(nope).Name = %q, want default", got)
	}
}

func TestStageColor(t *testing.T) {
	s := ForTheme("default")
	p := DefaultPalette()
	tests := []struct {
		stage task.Stage
		want  string
	}{
		{task.StageTodo, string(p.StageTodo)},
		{task.StageInProgress, string(p.StageInProgress)},
		{task.StageDone, string(p.StageDone)},
		{task.Stage(9), string(p.Muted)},
	}
	for _, tt := range tests {
		if got := string(s.StageColor(tt.stage)); got != tt.want {
			t.Errorf("StageColor(%v) = %s, want %s", tt.stage, got, tt.want)
		}
	}
}
