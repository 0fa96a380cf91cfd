package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// selectModel is the Bubble Tea model behind TerminalChooser
type selectModel struct {
	title     string
	choices   []Choice
	cursor    int
	chosen    int
	cancelled bool
	keys      keyMap
}

func newSelectModel(title string, choices []Choice) selectModel {
	return selectModel{
		title:   title,
		choices: choices,
		chosen:  -1,
		keys:    newKeyMap(),
	}
}

// Init initializes the model
func (m selectModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses
func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Select):
		m.chosen = m.cursor
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(m.choices) - 1
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	}
	return m, nil
}

// View renders the question and the choice list
func (m selectModel) View() string {
	var b strings.Builder

	b.WriteString(questionStyle.Render("? "))
	b.WriteString(m.title)
	b.WriteString("\n")

	// Collapse to the answer once done so it stays in the scrollback
	if m.chosen >= 0 {
		b.WriteString(cursorStyle.Render("› "))
		b.WriteString(m.choices[m.chosen].Title)
		b.WriteString("\n")
		return b.String()
	}
	if m.cancelled {
		return b.String()
	}

	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("❯ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(choice.Title)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("%s • %s • %s",
		m.keys.Up.Help().Key+"/"+m.keys.Down.Help().Key,
		m.keys.Select.Help().Key+" "+m.keys.Select.Help().Desc,
		m.keys.Cancel.Help().Key+" "+m.keys.Cancel.Help().Desc)))
	b.WriteString("\n")
	return b.String()
}

// TerminalChooser renders an arrow-key selection list on a terminal
type TerminalChooser struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalChooser creates a chooser bound to stdin and stderr
func NewTerminalChooser() *TerminalChooser {
	return &TerminalChooser{in: os.Stdin, out: os.Stderr}
}

// Choose blocks until the user selects, cancels, or ctx is done
func (c *TerminalChooser) Choose(ctx context.Context, title string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("no choices")
	}

	p := tea.NewProgram(newSelectModel(title, choices), tea.WithInput(c.in), tea.WithOutput(c.out))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-stop:
		}
	}()

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m, ok := final.(selectModel)
	if !ok || m.cancelled || m.chosen < 0 {
		return "", ErrCancelled
	}
	return m.choices[m.chosen].Value, nil
}
