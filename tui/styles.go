package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary   = lipgloss.Color("39")  // blue
	colorSecondary = lipgloss.Color("245") // gray
	colorSuccess   = lipgloss.Color("42")  // green
	colorDanger    = lipgloss.Color("196") // red
	colorMuted     = lipgloss.Color("240") // dark gray

	// Tab bar
	activeTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(colorPrimary).
			Padding(0, 2)

	inactiveTab = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Padding(0, 2)

	// Status bar
	statusBar = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	// Table
	selectedRow = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	// Queue depth columns
	sourceStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	processingStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	unackStyle      = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)

	// Consumer liveness
	aliveStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	deadStyle  = lipgloss.NewStyle().Foreground(colorDanger)

	// Error/info messages
	errStyle  = lipgloss.NewStyle().Foreground(colorDanger)
	infoStyle = lipgloss.NewStyle().Foreground(colorSuccess)
)
