package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/memegen/internal/meme"
	"github.com/dgnsrekt/memegen/internal/speech"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
)

const (
	sliderWidth     = 20
	labelWidth      = 8
	voiceListHeight = 5
	captionLimit    = 120
)

// formIntent is what a key press asks the editor to do.
type formIntent int

const (
	intentNone formIntent = iota
	intentSubmit
	intentClear
	intentRead
	intentVolume
)

type formField int

const (
	fieldTop formField = iota
	fieldBottom
	fieldVolume
	fieldVoice
	fieldGenerate
	fieldClear
	fieldRead
	fieldCount
)

// buttons in display order.
var buttons = []struct {
	field  formField
	action meme.Action
	intent formIntent
}{
	{fieldGenerate, meme.ActionGenerate, intentSubmit},
	{fieldClear, meme.ActionClear, intentClear},
	{fieldRead, meme.ActionRead, intentRead},
}

// formModel holds the caption inputs, volume slider and voice selector.
// It implements meme.Form; the controller reads it on Submit and Read.
type formModel struct {
	top    textinput.Model
	bottom textinput.Model
	focus  formField

	volume int

	voices    []speech.Voice
	labels    []string
	selected  int // index into voices, -1 when there are none
	filter    textinput.Model
	filtering bool
	preFilter int

	width int
}

func newFormModel(voices []speech.Voice, voice string, volume int) *formModel {
	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = captionLimit
		ti.Prompt = "> "
		return ti
	}

	filter := textinput.New()
	filter.Prompt = "/"
	filter.CharLimit = 64

	f := &formModel{
		top:      newInput("Top text"),
		bottom:   newInput("Bottom text"),
		volume:   clampPercent(volume),
		voices:   voices,
		filter:   filter,
		selected: initialVoice(voices, voice),
		width:    40,
	}
	for _, v := range voices {
		f.labels = append(f.labels, v.Label())
	}
	f.top.Focus()
	return f
}

func initialVoice(voices []speech.Voice, name string) int {
	if len(voices) == 0 {
		return -1
	}
	for i, v := range voices {
		if v.Name == name {
			return i
		}
	}
	for i, v := range voices {
		if v.Default {
			return i
		}
	}
	return 0
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}

// Caption implements meme.Form.
func (f *formModel) Caption() meme.Caption {
	return meme.Caption{Top: f.top.Value(), Bottom: f.bottom.Value()}
}

// SelectedVoice implements meme.Form.
func (f *formModel) SelectedVoice() string {
	if f.selected < 0 || f.selected >= len(f.voices) {
		return ""
	}
	return f.voices[f.selected].Name
}

// Volume returns the slider percentage.
func (f *formModel) Volume() int { return f.volume }

func (f *formModel) setWidth(w int) {
	f.width = max(20, w)
	f.top.Width = f.width - 4
	f.bottom.Width = f.width - 4
}

// typing reports whether keys are going to a text input.
func (f *formModel) typing() bool {
	return f.filtering || f.focus == fieldTop || f.focus == fieldBottom
}

func (f *formModel) setFocus(field formField) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	f.top.Blur()
	f.bottom.Blur()
	switch f.focus { //nolint:exhaustive
	case fieldTop:
		return f.top.Focus()
	case fieldBottom:
		return f.bottom.Focus()
	}
	return nil
}

func (f *formModel) update(msg tea.KeyMsg, controls meme.ControlState) (formIntent, tea.Cmd) {
	if f.filtering {
		return intentNone, f.updateFilter(msg)
	}

	switch {
	case key.Matches(msg, keys.Next):
		return intentNone, f.setFocus(f.focus + 1)
	case key.Matches(msg, keys.Prev):
		return intentNone, f.setFocus(f.focus - 1)
	}

	switch f.focus {
	case fieldTop, fieldBottom:
		if key.Matches(msg, keys.Submit) {
			// Implicit submission only goes through while Generate is enabled.
			if controls.Generate {
				return intentSubmit, nil
			}
			return intentNone, nil
		}
		var cmd tea.Cmd
		if f.focus == fieldTop {
			f.top, cmd = f.top.Update(msg)
		} else {
			f.bottom, cmd = f.bottom.Update(msg)
		}
		return intentNone, cmd

	case fieldVolume:
		step := 0
		switch {
		case key.Matches(msg, keys.BigLeft):
			step = -10
		case key.Matches(msg, keys.BigRight):
			step = 10
		case key.Matches(msg, keys.Left):
			step = -1
		case key.Matches(msg, keys.Right):
			step = 1
		}
		if step == 0 {
			return intentNone, nil
		}
		f.volume = clampPercent(f.volume + step)
		return intentVolume, nil

	case fieldVoice:
		if !controls.VoiceSelection {
			return intentNone, nil
		}
		switch {
		case key.Matches(msg, keys.Filter):
			f.filtering = true
			f.preFilter = f.selected
			return intentNone, f.filter.Focus()
		case key.Matches(msg, keys.Up, keys.Left):
			f.moveVoice(-1)
		case key.Matches(msg, keys.Down, keys.Right):
			f.moveVoice(1)
		}
		return intentNone, nil

	default:
		if !key.Matches(msg, keys.Press) {
			return intentNone, nil
		}
		for _, b := range buttons {
			if b.field == f.focus && controls.Enabled(b.action) {
				return b.intent, nil
			}
		}
		return intentNone, nil
	}
}

func (f *formModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Cancel):
		f.selected = f.preFilter
		f.stopFilter()
		return nil
	case key.Matches(msg, keys.Submit):
		f.stopFilter()
		return nil
	case msg.Type == tea.KeyUp:
		f.moveVoice(-1)
		return nil
	case msg.Type == tea.KeyDown:
		f.moveVoice(1)
		return nil
	}

	var cmd tea.Cmd
	f.filter, cmd = f.filter.Update(msg)
	if vis := f.visible(); len(vis) > 0 {
		f.selected = vis[0].Index
	}
	return cmd
}

func (f *formModel) stopFilter() {
	f.filtering = false
	f.filter.Blur()
	f.filter.SetValue("")
}

// visible returns the voices matching the current filter, best first.
func (f *formModel) visible() fuzzy.Matches {
	if f.filter.Value() == "" {
		all := make(fuzzy.Matches, len(f.labels))
		for i, l := range f.labels {
			all[i] = fuzzy.Match{Str: l, Index: i}
		}
		return all
	}
	return fuzzy.Find(f.filter.Value(), f.labels)
}

func (f *formModel) moveVoice(delta int) {
	vis := f.visible()
	if len(vis) == 0 {
		return
	}
	pos := -1
	for i, m := range vis {
		if m.Index == f.selected {
			pos = i
			break
		}
	}
	pos = max(0, min(len(vis)-1, pos+delta))
	f.selected = vis[pos].Index
}

func (f *formModel) view(controls meme.ControlState, tier meme.VolumeTier) string {
	var b strings.Builder

	fmt.Fprintln(&b, f.label("Top", fieldTop))
	fmt.Fprintln(&b, f.top.View())
	fmt.Fprintln(&b, f.label("Bottom", fieldBottom))
	fmt.Fprintln(&b, f.bottom.View())
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "%s%s %s %3d%%\n", f.label("Volume", fieldVolume), tier.Icon(), slider(f.volume), f.volume)
	fmt.Fprintf(&b, "%s%s\n", f.label("Voice", fieldVoice), f.voiceView(controls.VoiceSelection))
	if f.filtering {
		fmt.Fprint(&b, f.voiceListView())
	}
	fmt.Fprintln(&b)

	row := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		style := buttonStyle
		switch {
		case !controls.Enabled(btn.action):
			style = disabledButtonStyle
		case f.focus == btn.field:
			style = focusedButtonStyle
		}
		row = append(row, style.Render(btn.action.String()))
	}
	fmt.Fprint(&b, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	return formStyle.Render(b.String())
}

func (f *formModel) label(name string, field formField) string {
	s := runewidth.FillRight(name, labelWidth)
	if f.focus == field {
		return focusedLabelStyle.Render(s)
	}
	return labelStyle.Render(s)
}

func (f *formModel) voiceView(enabled bool) string {
	if len(f.voices) == 0 {
		return subtleStyle.Render("no voices available")
	}

	avail := uint(max(0, f.width-labelWidth-4)) //nolint:gosec
	label := truncate.StringWithTail(f.labels[f.selected], avail, ellipsis)
	switch {
	case !enabled:
		return subtleStyle.Render(label)
	case f.focus == fieldVoice:
		return selectedItemStyle.Render("‹ " + label + " ›")
	default:
		return label
	}
}

func (f *formModel) voiceListView() string {
	var b strings.Builder
	fmt.Fprintln(&b, strings.Repeat(" ", labelWidth)+f.filter.View())

	vis := f.visible()
	if len(vis) == 0 {
		fmt.Fprintln(&b, strings.Repeat(" ", labelWidth)+subtleStyle.Render("no matches"))
		return b.String()
	}

	avail := uint(max(0, f.width-labelWidth-2)) //nolint:gosec
	for i, m := range vis {
		if i == voiceListHeight {
			break
		}
		label := truncate.StringWithTail(m.Str, avail, ellipsis)
		if len(m.MatchedIndexes) > 0 && runewidth.StringWidth(label) == runewidth.StringWidth(m.Str) {
			label = lipgloss.StyleRunes(label, m.MatchedIndexes, matchStyle, lipgloss.NewStyle())
		}
		prefix := "  "
		if m.Index == f.selected {
			prefix = selectedItemStyle.Render("• ")
		}
		fmt.Fprintln(&b, strings.Repeat(" ", labelWidth)+prefix+label)
	}
	return b.String()
}

func slider(percent int) string {
	filled := percent * sliderWidth / 100
	return sliderFillStyle.Render(strings.Repeat("█", filled)) +
		sliderEmptyStyle.Render(strings.Repeat("░", sliderWidth-filled))
}

var _ meme.Form = (*formModel)(nil)
