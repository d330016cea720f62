package ui

import "github.com/charmbracelet/lipgloss"

var (
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	fuchsia   = lipgloss.Color("#EE6FF8")
	green     = lipgloss.Color("#04B575")
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray   = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(fuchsia).
			Bold(true).
			Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarVolumeStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(cream).
				Background(red).
				Render

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(red).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().Foreground(gray)

	labelStyle = lipgloss.NewStyle().Foreground(statusBarNoteFg)

	focusedLabelStyle = lipgloss.NewStyle().Foreground(fuchsia).Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(lipgloss.Color("#6124DF")).
			Padding(0, 2).
			MarginRight(1)

	focusedButtonStyle = buttonStyle.
				Background(fuchsia).
				Underline(true)

	disabledButtonStyle = buttonStyle.
				Foreground(midGray).
				Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"})

	sliderFillStyle  = lipgloss.NewStyle().Foreground(green)
	sliderEmptyStyle = lipgloss.NewStyle().Foreground(midGray)

	selectedItemStyle = lipgloss.NewStyle().Foreground(fuchsia)
	matchStyle        = lipgloss.NewStyle().Underline(true)

	formStyle = lipgloss.NewStyle().PaddingLeft(2)
)
