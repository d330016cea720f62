package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
)

// helpSections groups the key bindings shown on the help screen.
var helpSections = []struct {
	title    string
	bindings []key.Binding
}{
	{"Editor", []key.Binding{keys.Next, keys.Prev, keys.Submit, keys.Press}},
	{"Volume and voice", []key.Binding{keys.Left, keys.Right, keys.BigLeft, keys.BigRight, keys.Up, keys.Down, keys.Filter}},
	{"Files", []key.Binding{keys.Save, keys.Copy, keys.Open, keys.Reload}},
	{"General", []key.Binding{keys.Stop, keys.Help, keys.Cancel, keys.Suspend, keys.Quit}},
}

func helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# memegen\n\n")
	b.WriteString("Pick an image, type a top and bottom caption and press **Generate**. ")
	b.WriteString("Once generated, **Read Text** speaks the caption with the selected voice ")
	b.WriteString("and **Clear** wipes the canvas.\n\n")

	for _, s := range helpSections {
		fmt.Fprintf(&b, "## %s\n\n| Key | Action |\n| --- | --- |\n", s.title)
		for _, k := range s.bindings {
			h := k.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderHelp renders the help screen with glamour.
func renderHelp(style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, min(width, 100))),
	)
	if err != nil {
		return "", fmt.Errorf("error creating glamour renderer: %w", err)
	}
	out, err := r.Render(helpMarkdown())
	if err != nil {
		return "", fmt.Errorf("error rendering help: %w", err)
	}
	return out, nil
}
