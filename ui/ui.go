// Package ui provides the interactive meme editor.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/canvas"
	"github.com/dgnsrekt/memegen/internal/imagesrc"
	"github.com/dgnsrekt/memegen/internal/meme"
	te "github.com/muesli/termenv"
)

const (
	statusBarHeight = 1
	ellipsis        = "…"
)

// ErrNoSpeaker is returned by NewProgram without a speech engine.
var ErrNoSpeaker = errors.New("a speaker is required")

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, speaker Speaker) (*tea.Program, error) {
	log.Debug(
		"starting memegen",
		"path", cfg.Path,
		"fit", cfg.FitMode,
		"canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight),
	)

	m, err := newModel(cfg, speaker)
	if err != nil {
		return nil, err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(m, opts...), nil
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	initImageSearchMsg struct {
		root string
		ch   <-chan imagesrc.Result
	}
	foundImageMsg          imagesrc.Result
	imageSearchFinishedMsg struct{}
	imageLoadedMsg         imagesrc.Loaded
	imageChangedMsg        struct{ path string }
	savedMsg               struct {
		path string
		err  error
	}
)

// state is the top-level application state.
type state int

const (
	statePicker state = iota
	stateEditor
	stateHelp
)

func (s state) String() string {
	return map[state]string{
		statePicker: "choosing an image",
		stateEditor: "editing",
		stateHelp:   "showing help",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	cwd    string
	width  int
	height int
}

type model struct {
	common    *commonModel
	state     state
	prevState state
	fatalErr  error

	canvas     *canvas.Canvas
	controller *meme.Controller
	events     *meme.Dispatcher
	speaker    Speaker
	loader     *imagesrc.Loader
	watcher    *imagesrc.Watcher

	picker pickerModel
	form   *formModel

	initialImage string
	picture      *canvas.Picture
	lastSaved    string
	help         string

	speaking      bool
	speechSpinner spinner.Model

	statusMessage statusMessage
	statusSeq     int

	// Channel that receives image files found by gitcha.
	imageFinder <-chan imagesrc.Result
	searched    bool
	watching    bool
}

func newModel(cfg Config, speaker Speaker) (model, error) {
	if speaker == nil {
		return model{}, ErrNoSpeaker
	}

	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle {
		if te.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}
	if cfg.CanvasWidth <= 0 {
		cfg.CanvasWidth = canvas.DefaultWidth
	}
	if cfg.CanvasHeight <= 0 {
		cfg.CanvasHeight = canvas.DefaultHeight
	}

	cv, err := canvas.New(cfg.CanvasWidth, cfg.CanvasHeight)
	if err != nil {
		return model{}, err
	}

	form := newFormModel(speaker.Voices(), cfg.Voice, cfg.Volume)

	opts := []meme.Option{meme.WithFitMode(cfg.FitMode)}
	if cfg.ResetOnLoad {
		opts = append(opts, meme.WithResetOnLoad())
	}
	ctrl, err := meme.NewController(cv, speaker, form, opts...)
	if err != nil {
		return model{}, err
	}

	events := meme.NewDispatcher()
	ctrl.Bind(events)
	events.VolumeChange(form.Volume())

	var watcher *imagesrc.Watcher
	if cfg.WatchImage {
		watcher, err = imagesrc.NewWatcher()
		if err != nil {
			log.Error("error creating image watcher", "error", err)
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	common := &commonModel{cfg: cfg}
	m := model{
		common:        common,
		canvas:        cv,
		controller:    ctrl,
		events:        events,
		speaker:       speaker,
		loader:        imagesrc.NewLoader(nil),
		watcher:       watcher,
		picker:        newPickerModel(common),
		form:          form,
		speechSpinner: sp,
	}

	path := cfg.Path
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		log.Error("unable to stat file", "file", path, "error", err)
		m.fatalErr = err
		return m, nil
	}
	if info.IsDir() {
		m.state = statePicker
		m.searched = true
		m.common.cfg.Path = path
	} else {
		// The picker searches next to the image.
		m.state = stateEditor
		m.initialImage = path
		m.common.cfg.Path = filepath.Dir(path)
		m.common.cwd = m.common.cfg.Path
	}
	return m, nil
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called", "state", m.state)
	cmds := []tea.Cmd{waitForSpeechError(m.speaker)}

	switch m.state {
	case statePicker:
		cmds = append(cmds, m.picker.spinner.Tick, findImages(*m.common))
	case stateEditor:
		cmds = append(cmds, m.loadImage(m.initialImage))
	case stateHelp:
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		// Ctrl+C always quits no matter where in the application you are.
		case key.Matches(msg, keys.Quit):
			return m, m.quit()
		case key.Matches(msg, keys.Suspend):
			return m, tea.Suspend
		}

		switch m.state {
		case stateHelp:
			m.state = m.prevState
			return m, nil
		case statePicker:
			return m.updatePicker(msg)
		case stateEditor:
			return m.updateEditor(msg)
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.form.setWidth(msg.Width - m.previewCols() - 4)
		if m.state == stateHelp {
			m.renderHelp()
		}

	case errMsg:
		m.fatalErr = msg.err

	case initImageSearchMsg:
		m.imageFinder = msg.ch
		m.common.cwd = msg.root
		cmds = append(cmds, findNextImage(m.imageFinder))

	case foundImageMsg:
		m.picker.add(imagesrc.Result(msg))
		cmds = append(cmds, findNextImage(m.imageFinder))

	case imageSearchFinishedMsg:
		m.picker.searching = false

	case pickedImageMsg:
		m.state = stateEditor
		cmds = append(cmds, m.loadImage(msg.Path))

	case imageLoadedMsg:
		cmds = append(cmds, m.imageLoaded(imagesrc.Loaded(msg)))

	case imageChangedMsg:
		log.Debug("image changed on disk", "path", msg.path)
		m.watching = false
		cmds = append(cmds, m.loadImage(msg.path))

	case savedMsg:
		if msg.err != nil {
			log.Error("unable to save meme", "path", msg.path, "error", msg.err)
			cmds = append(cmds, m.showStatusMessage(statusMessage{"Save failed: " + msg.err.Error(), true}))
			break
		}
		m.lastSaved = msg.path
		cmds = append(cmds, m.showStatusMessage(statusMessage{"Saved " + msg.path, false}))

	case statusMessageTimeoutMsg:
		if int(msg) == m.statusSeq {
			m.statusMessage = statusMessage{}
		}

	case speechErrMsg:
		log.Error("speech failed", "error", msg.err)
		cmds = append(cmds,
			m.showStatusMessage(statusMessage{speechErrorText(msg.err), true}),
			waitForSpeechError(m.speaker),
		)

	case speechTickMsg:
		if m.speaker.Busy() {
			cmds = append(cmds, speechTick())
		} else {
			m.speaking = false
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.update(msg)
		cmds = append(cmds, cmd)
		if m.speaking {
			m.speechSpinner, cmd = m.speechSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.picker.filtering {
		switch {
		case key.Matches(msg, keys.Help):
			m.showHelp()
			return m, nil
		case key.Matches(msg, keys.Reload):
			cmd := m.searchImages()
			return m, cmd
		case key.Matches(msg, keys.Cancel) && m.picture != nil && m.picker.filter.Value() == "":
			m.state = stateEditor
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.update(msg)
	return m, cmd
}

func (m model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Save):
		return m, m.save()
	case key.Matches(msg, keys.Stop):
		m.speaker.Cancel()
		m.speaking = false
		cmd := m.showStatusMessage(statusMessage{"Speech stopped", false})
		return m, cmd
	}

	if !m.form.typing() {
		switch {
		case key.Matches(msg, keys.Help):
			m.showHelp()
			return m, nil
		case key.Matches(msg, keys.Open):
			m.state = statePicker
			if !m.searched {
				cmd := m.searchImages()
				return m, cmd
			}
			return m, nil
		case key.Matches(msg, keys.Copy):
			cmd := m.copySaved()
			return m, cmd
		}
	}

	intent, cmd := m.form.update(msg, m.controller.Controls())
	dispatched := m.dispatch(intent)
	return m, tea.Batch(cmd, dispatched)
}

// dispatch turns a form intent into a controller event. Disabled controls
// are ignored here as well as in the form.
func (m *model) dispatch(intent formIntent) tea.Cmd {
	switch intent {
	case intentSubmit:
		if m.controller.Allowed(meme.ActionGenerate) {
			m.events.Submit()
		}
	case intentClear:
		if m.controller.Allowed(meme.ActionClear) {
			m.events.Clear()
		}
	case intentRead:
		if !m.controller.Allowed(meme.ActionRead) {
			return nil
		}
		m.events.Read()
		if !m.speaking {
			m.speaking = true
			return tea.Batch(m.speechSpinner.Tick, speechTick())
		}
	case intentVolume:
		m.events.VolumeChange(m.form.Volume())
	case intentNone:
	}
	return nil
}

func (m *model) imageLoaded(res imagesrc.Loaded) tea.Cmd {
	if !m.loader.Current(res) {
		return nil
	}
	if res.Err != nil {
		log.Error("unable to load image", "path", res.Path, "error", res.Err)
		return m.showStatusMessage(statusMessage{"Unable to load " + filepath.Base(res.Path), true})
	}

	m.picture = res.Picture
	m.events.ImageLoaded(res.Picture)

	if m.watcher == nil {
		return nil
	}
	if err := m.watcher.Watch(res.Path); err != nil {
		log.Error("unable to watch image", "path", res.Path, "error", err)
		return nil
	}
	if m.watching {
		return nil
	}
	m.watching = true
	return watchImage(m.watcher)
}

func (m *model) loadImage(path string) tea.Cmd {
	req := m.loader.Request(path)
	loader := m.loader
	return func() tea.Msg {
		return imageLoadedMsg(loader.Load(context.Background(), req))
	}
}

func (m *model) searchImages() tea.Cmd {
	m.searched = true
	m.picker.reset()
	return tea.Batch(m.picker.spinner.Tick, findImages(*m.common))
}

func (m *model) showHelp() {
	if m.state != stateHelp {
		m.prevState = m.state
	}
	m.state = stateHelp
	m.renderHelp()
}

func (m *model) renderHelp() {
	out, err := renderHelp(m.common.cfg.GlamourStyle, m.common.width)
	if err != nil {
		log.Error("unable to render help", "error", err)
		out = helpMarkdown()
	}
	m.help = out
}

func (m *model) save() tea.Cmd {
	path := m.outputPath()
	snapshot := m.canvas.Snapshot()
	return func() tea.Msg {
		return savedMsg{path: path, err: canvas.SaveImage(snapshot, path)}
	}
}

// outputPath is the configured output path, or one derived from the
// loaded image's name.
func (m model) outputPath() string {
	if m.common.cfg.OutputPath != "" {
		return m.common.cfg.OutputPath
	}
	name := "meme.png"
	if m.picture != nil {
		name = strings.TrimSuffix(m.picture.Name, filepath.Ext(m.picture.Name)) + "-meme.png"
	}
	return name
}

func (m *model) copySaved() tea.Cmd {
	if m.lastSaved == "" {
		return m.showStatusMessage(statusMessage{"Nothing saved yet, press ctrl+s first", true})
	}
	path, err := filepath.Abs(m.lastSaved)
	if err != nil {
		path = m.lastSaved
	}
	// Copy using OSC 52
	te.Copy(path)
	// Copy using native system clipboard
	_ = clipboard.WriteAll(path)
	return m.showStatusMessage(statusMessage{"Copied " + path, false})
}

func (m *model) quit() tea.Cmd {
	m.speaker.Cancel()
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.Debug("error closing image watcher", "error", err)
		}
	}
	return tea.Quit
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	switch m.state {
	case statePicker:
		return m.picker.view()
	case stateHelp:
		return m.help
	default:
		return m.editorView()
	}
}

func (m model) editorView() string {
	preview := renderPreview(m.canvas.Image(), m.previewCols(), m.previewRows(), lipgloss.ColorProfile())
	form := m.form.view(m.controller.Controls(), m.controller.Tier())
	body := lipgloss.JoinHorizontal(lipgloss.Top, preview, form)

	// Push the status bar to the bottom of the screen.
	gap := max(0, m.common.height-lipgloss.Height(body)-statusBarHeight)
	return body + strings.Repeat("\n", gap+1) + m.statusBarView()
}

func (m model) previewCols() int {
	return max(0, min(m.common.cfg.PreviewWidth, m.common.width/2))
}

func (m model) previewRows() int {
	return max(0, m.common.height-statusBarHeight-1)
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

func findImages(m commonModel) tea.Cmd {
	return func() tea.Msg {
		log.Info("findImages")
		ch, root, err := imagesrc.Find(m.cfg.Path, m.cfg.ShowAllFiles, nil)
		if err != nil {
			log.Error("error finding images", "error", err)
			return errMsg{err}
		}
		return initImageSearchMsg{root: root, ch: ch}
	}
}

func findNextImage(ch <-chan imagesrc.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if ok {
			// Okay now find the next one
			return foundImageMsg(res)
		}
		// We're done
		log.Debug("image search finished")
		return imageSearchFinishedMsg{}
	}
}

func watchImage(w *imagesrc.Watcher) tea.Cmd {
	return func() tea.Msg {
		path, err := w.Next(context.Background())
		if err != nil {
			if !errors.Is(err, imagesrc.ErrWatcherClosed) {
				log.Debug("image watch stopped", "error", err)
			}
			return nil
		}
		return imageChangedMsg{path}
	}
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
