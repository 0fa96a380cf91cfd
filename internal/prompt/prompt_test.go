package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChoices = []Choice{
	{Title: "Pixel 7", Value: "dev1#1"},
	{Title: "iPhone 15", Value: "dev2#1"},
	{Title: "Unknown device", Value: "dev3#1"},
}

func press(m selectModel, msgs ...tea.KeyMsg) (selectModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(selectModel)
	}
	return m, cmd
}

func TestSelectModelNavigation(t *testing.T) {
	m := newSelectModel("Debug target", testChoices)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, m.cursor)

	// Wraps past the end
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.cursor)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.cursor)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, m.cursor)
}

func TestSelectModelSelect(t *testing.T) {
	m := newSelectModel("Debug target", testChoices)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.chosen)
	assert.False(t, m.cancelled)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	view := m.View()
	assert.Contains(t, view, "iPhone 15")
	assert.NotContains(t, view, "Pixel 7")
}

func TestSelectModelCancel(t *testing.T) {
	m := newSelectModel("Debug target", testChoices)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, m.cancelled)
	assert.Equal(t, -1, m.chosen)
}

func TestSelectModelView(t *testing.T) {
	m := newSelectModel("Debug target", testChoices)
	view := m.View()

	assert.Contains(t, view, "Debug target")
	for _, choice := range testChoices {
		assert.Contains(t, view, choice.Title)
	}
	assert.Contains(t, view, "enter select")
}

func TestTerminalChooserEnterPicksCurrent(t *testing.T) {
	var out bytes.Buffer
	chooser := &TerminalChooser{in: strings.NewReader("\r"), out: &out}

	value, err := chooser.Choose(context.Background(), "Debug target", testChoices)
	require.NoError(t, err)
	assert.Equal(t, "dev1#1", value)
}

func TestTerminalChooserNoChoices(t *testing.T) {
	_, err := NewTerminalChooser().Choose(context.Background(), "Debug target", nil)
	assert.Error(t, err)
}

func TestFirstChooser(t *testing.T) {
	value, err := FirstChooser{}.Choose(context.Background(), "Debug target", testChoices)
	require.NoError(t, err)
	assert.Equal(t, "dev1#1", value)

	_, err = FirstChooser{}.Choose(context.Background(), "Debug target", nil)
	assert.Error(t, err)
}

func TestChooserFunc(t *testing.T) {
	var called bool
	var chooser Chooser = ChooserFunc(func(_ context.Context, title string, choices []Choice) (string, error) {
		called = true
		return choices[len(choices)-1].Value, nil
	})

	value, err := chooser.Choose(context.Background(), "t", testChoices)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "dev3#1", value)
}

func TestDimKeepsText(t *testing.T) {
	assert.Contains(t, Dim(" - dev1#1"), "dev1#1")
}
