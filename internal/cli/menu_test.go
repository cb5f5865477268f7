package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bingo/pkg/assemble"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model and returns the final state and whether the
// last key quit the program.
func press(m ModeMenuModel, keys ...tea.KeyMsg) (ModeMenuModel, bool) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(ModeMenuModel)
	}
	if cmd == nil {
		return m, false
	}
	_, quit := cmd().(tea.QuitMsg)
	return m, quit
}

func TestModeMenuKeys(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		wantMode assemble.Mode
		wantExit bool
	}{
		{"enter on default", []tea.KeyMsg{{Type: tea.KeyEnter}}, assemble.ModeBoth, false},
		{"up then enter", []tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyEnter}}, assemble.ModeCompact, false},
		{"vim keys", []tea.KeyMsg{runes("k"), runes("k"), runes("j"), {Type: tea.KeyEnter}}, assemble.ModeCompact, false},
		{"digit", []tea.KeyMsg{runes("1")}, assemble.ModeFull, false},
		{"exit digit", []tea.KeyMsg{runes("4")}, "", true},
		{"quit", []tea.KeyMsg{runes("q")}, "", true},
		{"escape", []tea.KeyMsg{{Type: tea.KeyEsc}}, "", true},
		{"down to exit", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, quit := press(NewModeMenuModel(), tt.keys...)
			if !quit {
				t.Fatal("menu did not quit after a choice")
			}
			mode, exit := m.Result()
			if mode != tt.wantMode || exit != tt.wantExit {
				t.Errorf("Result() = (%q, %v), want (%q, %v)", mode, exit, tt.wantMode, tt.wantExit)
			}
		})
	}
}

func TestModeMenuCursorBounds(t *testing.T) {
	m, quit := press(NewModeMenuModel(),
		tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if quit {
		t.Fatal("navigation should not quit")
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}

	for range 10 {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor != len(menuChoices)-1 {
		t.Errorf("Cursor = %d, want %d", m.Cursor, len(menuChoices)-1)
	}
}

func TestModeMenuIgnoresOtherInput(t *testing.T) {
	m, quit := press(NewModeMenuModel(), runes("x"))
	if quit || m.Chosen != nil {
		t.Error("unknown key should be ignored")
	}
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil || next.(ModeMenuModel).Chosen != nil {
		t.Error("non-key messages should be ignored")
	}
}

func TestModeMenuView(t *testing.T) {
	m := NewModeMenuModel()
	view := m.View()
	for _, c := range menuChoices {
		if !strings.Contains(view, c.label) {
			t.Errorf("view missing %q", c.label)
		}
	}
	if !strings.Contains(view, "▸ 3. Both") {
		t.Errorf("cursor not on Both: %q", view)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.View() != "" {
		t.Error("view should be empty once a choice is made")
	}
}

func TestModeMenuResultWithoutChoice(t *testing.T) {
	if _, exit := NewModeMenuModel().Result(); !exit {
		t.Error("closing the menu without a choice should exit")
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if isTerminal(strings.NewReader(""), &strings.Builder{}) {
		t.Error("isTerminal() = true for in-memory streams")
	}
}
