// Package prompt asks the user to pick one entry from a short list.
package prompt

import (
	"context"
	"errors"

	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user dismisses the prompt without choosing
var ErrCancelled = errors.New("prompt cancelled")

// Choice is one selectable entry. Title is displayed, Value is returned.
type Choice struct {
	Title string
	Value string
}

// Chooser presents choices and returns the Value of the selected one
type Chooser interface {
	Choose(ctx context.Context, title string, choices []Choice) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface
type ChooserFunc func(ctx context.Context, title string, choices []Choice) (string, error)

// Choose calls f
func (f ChooserFunc) Choose(ctx context.Context, title string, choices []Choice) (string, error) {
	return f(ctx, title, choices)
}

// FirstChooser picks the first choice without asking. Used for headless runs.
type FirstChooser struct{}

// Choose returns the first choice's value
func (FirstChooser) Choose(_ context.Context, _ string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("no choices")
	}
	return choices[0].Value, nil
}

var dimStyle = lipgloss.NewStyle().Faint(true)

// Dim renders s de-emphasized. Terminals without color support get s unchanged.
func Dim(s string) string {
	return dimStyle.Render(s)
}
