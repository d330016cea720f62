package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const statusMessageTimeout = 3 * time.Second

type statusMessage struct {
	text    string
	isError bool
}

type statusMessageTimeoutMsg int

// showStatusMessage displays msg until it times out or is replaced.
func (m *model) showStatusMessage(msg statusMessage) tea.Cmd {
	m.statusMessage = msg
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg(seq)
	})
}

func (m model) statusBarView() string {
	logo := logoStyle(" memegen ")
	volume := statusBarVolumeStyle(fmt.Sprintf(" %s %d%% ", m.controller.Tier().Icon(), m.form.Volume()))

	style := statusBarNoteStyle
	var note string
	switch {
	case m.statusMessage.text != "" && m.statusMessage.isError:
		style = statusBarErrorStyle
		note = m.statusMessage.text
	case m.statusMessage.text != "":
		style = statusBarMessageStyle
		note = m.statusMessage.text
	default:
		note = m.statusNote()
	}

	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(volume),
	)), ellipsis)
	note = style(note)

	padding := max(0,
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(volume),
	)
	emptySpace := style(strings.Repeat(" ", padding))

	return logo + note + emptySpace + volume
}

func (m model) statusNote() string {
	var parts []string

	if m.picture != nil {
		parts = append(parts, fmt.Sprintf("%s %dx%d", m.picture.Name, m.picture.Width(), m.picture.Height()))
		if m.picture.Size > 0 {
			parts = append(parts, humanize.Bytes(uint64(m.picture.Size))) //nolint:gosec
		}
	} else {
		parts = append(parts, "no image")
	}

	voice := m.form.SelectedVoice()
	if voice == "" {
		voice = "default voice"
	}
	parts = append(parts, voice)

	if m.speaking {
		parts = append(parts, m.speechSpinner.View()+" speaking")
	}
	return strings.Join(parts, " • ")
}
