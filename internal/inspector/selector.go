package inspector

import (
	"context"

	"github.com/standardbeagle/jsinspect/internal/prompt"
)

// PromptTitle is the question shown when several targets are available
var PromptTitle = "Debug target " + prompt.Dim("(Hermes only)")

// TargetChoices builds one choice per target. When two targets share a display name,
// every title gets the target ID appended so the user can tell them apart.
func TargetChoices(targets []Target) []prompt.Choice {
	seen := make(map[string]bool, len(targets))
	hasDuplicateNames := false
	for _, target := range targets {
		name := target.DisplayName()
		if seen[name] {
			hasDuplicateNames = true
			break
		}
		seen[name] = true
	}

	choices := make([]prompt.Choice, len(targets))
	for i, target := range targets {
		title := target.DisplayName()
		if hasDuplicateNames {
			title += prompt.Dim(" - " + target.ID)
		}
		choices[i] = prompt.Choice{Title: title, Value: target.ID}
	}
	return choices
}

// SelectTarget resolves the targets to one. A single target is returned without asking;
// no targets yields nil. Otherwise chooser decides.
func SelectTarget(ctx context.Context, targets []Target, chooser prompt.Chooser) (*Target, error) {
	switch len(targets) {
	case 0:
		return nil, nil
	case 1:
		return &targets[0], nil
	}

	value, err := chooser.Choose(ctx, PromptTitle, TargetChoices(targets))
	if err != nil {
		return nil, err
	}

	for i := range targets {
		if targets[i].ID == value {
			return &targets[i], nil
		}
	}
	return nil, nil
}
