package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/memegen/internal/imagesrc"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
)

// pickerModel lists the images found below the search root.
type pickerModel struct {
	common *commonModel

	images    []imagesrc.Result
	searching bool
	spinner   spinner.Model

	filter    textinput.Model
	filtering bool
	cursor    int
}

// pickedImageMsg is sent when the user chooses an image.
type pickedImageMsg imagesrc.Result

func newPickerModel(common *commonModel) pickerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(fuchsia)

	filter := textinput.New()
	filter.Prompt = "Find: "
	filter.CharLimit = 64

	return pickerModel{
		common:    common,
		searching: true,
		spinner:   sp,
		filter:    filter,
	}
}

func (m *pickerModel) reset() {
	m.images = nil
	m.cursor = 0
	m.searching = true
	m.filtering = false
	m.filter.SetValue("")
}

func (m *pickerModel) add(res imagesrc.Result) {
	m.images = append(m.images, res)
}

// visible returns the images matching the filter, best match first.
func (m pickerModel) visible() []imagesrc.Result {
	if m.filter.Value() == "" {
		return m.images
	}
	names := make([]string, len(m.images))
	for i, img := range m.images {
		names[i] = img.Rel
	}
	matches := fuzzy.Find(m.filter.Value(), names)
	out := make([]imagesrc.Result, len(matches))
	for i, match := range matches {
		out[i] = m.images[match.Index]
	}
	return out
}

func (m pickerModel) update(msg tea.Msg) (pickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}

		vis := m.visible()
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = max(0, m.cursor-1)
		case key.Matches(msg, keys.Down):
			m.cursor = min(max(0, len(vis)-1), m.cursor+1)
		case key.Matches(msg, keys.Filter):
			m.filtering = true
			return m, m.filter.Focus()
		case key.Matches(msg, keys.Cancel):
			m.filter.SetValue("")
			m.cursor = 0
		case key.Matches(msg, keys.Submit):
			if m.cursor < len(vis) {
				picked := vis[m.cursor]
				return m, func() tea.Msg { return pickedImageMsg(picked) }
			}
		}
	}
	return m, nil
}

func (m pickerModel) updateFilter(msg tea.KeyMsg) (pickerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.filter.SetValue("")
		fallthrough
	case key.Matches(msg, keys.Submit):
		m.filtering = false
		m.filter.Blur()
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m pickerModel) view() string {
	var b strings.Builder

	header := logoStyle(" memegen ") + " "
	switch {
	case m.searching:
		header += m.spinner.View() + " Searching for images..."
	case len(m.images) == 1:
		header += subtleStyle.Render("1 image")
	default:
		header += subtleStyle.Render(fmt.Sprintf("%d images", len(m.images)))
	}
	fmt.Fprintf(&b, "\n  %s\n\n", header)

	if m.filtering || m.filter.Value() != "" {
		fmt.Fprintf(&b, "  %s\n\n", m.filter.View())
	}

	vis := m.visible()
	if len(vis) == 0 && !m.searching {
		fmt.Fprintf(&b, "  %s\n", subtleStyle.Render("No images found."))
	}

	height := max(1, m.common.height-8)
	start := max(0, m.cursor-height+1)
	width := uint(max(10, m.common.width-30)) //nolint:gosec

	for i := start; i < len(vis) && i < start+height; i++ {
		img := vis[i]
		name := truncate.StringWithTail(img.Rel, width, ellipsis)
		meta := subtleStyle.Render(fmt.Sprintf("%s, %s", humanize.Bytes(uint64(img.Size)), humanize.Time(img.ModTime))) //nolint:gosec
		if i == m.cursor {
			fmt.Fprintf(&b, "  %s %s\n", selectedItemStyle.Render("│ "+name), meta)
		} else {
			fmt.Fprintf(&b, "    %s %s\n", name, meta)
		}
	}

	fmt.Fprintf(&b, "\n  %s", subtleStyle.Render("enter open • / filter • r rescan • ? help • ctrl+c quit"))
	return b.String()
}
