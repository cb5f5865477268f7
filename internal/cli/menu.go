package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/matzehuels/bingo/pkg/assemble"
)

// Menu styles
var (
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	menuNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	menuDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ModeMenuModel - Interactive PDF mode selection
// =============================================================================

// ModeMenuModel is the bubbletea model for picking a PDF layout.
type ModeMenuModel struct {
	Cursor int
	// Chosen is set once the user confirms an entry.
	Chosen *menuChoice
}

// NewModeMenuModel creates a menu with the cursor on "Both".
func NewModeMenuModel() ModeMenuModel {
	return ModeMenuModel{Cursor: 2}
}

func (m ModeMenuModel) Init() tea.Cmd {
	return nil
}

func (m ModeMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k := key.String(); k {
	case "q", "ctrl+c", "esc":
		m.Chosen = &menuChoices[len(menuChoices)-1]
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(menuChoices)-1 {
			m.Cursor++
		}
	case "enter":
		m.Chosen = &menuChoices[m.Cursor]
		return m, tea.Quit
	default:
		for i, c := range menuChoices {
			if k == c.key {
				m.Cursor = i
				m.Chosen = &menuChoices[i]
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m ModeMenuModel) View() string {
	if m.Chosen != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Bingo Card PDF Creator"))
	b.WriteString("\n")
	b.WriteString(menuDimStyle.Render("↑/↓ navigate  1-4 or ⏎ select  q quit"))
	b.WriteString("\n\n")
	for i, c := range menuChoices {
		line := fmt.Sprintf("%s. %s", c.key, c.label)
		if i == m.Cursor {
			b.WriteString(menuSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(menuNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Result returns the confirmed mode, with exit set for the exit entry or
// when the menu was closed without a choice.
func (m ModeMenuModel) Result() (mode assemble.Mode, exit bool) {
	if m.Chosen == nil || m.Chosen.mode == "" {
		return "", true
	}
	return m.Chosen.mode, false
}

// isTerminal reports whether both streams are attached to a terminal.
func isTerminal(in io.Reader, out io.Writer) bool {
	fi, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(fi.Fd())) {
		return false
	}
	fo, ok := out.(*os.File)
	return ok && term.IsTerminal(int(fo.Fd()))
}

// runModeMenu shows the interactive menu on the terminal.
func runModeMenu(in io.Reader, out io.Writer) (assemble.Mode, bool, error) {
	p := tea.NewProgram(NewModeMenuModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	fm, ok := final.(ModeMenuModel)
	if !ok {
		return "", true, nil
	}
	mode, exit := fm.Result()
	return mode, exit, nil
}
