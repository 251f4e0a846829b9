package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("63")  // Purple/blue
	Secondary = lipgloss.Color("86")  // Cyan
	Success   = lipgloss.Color("78")  // Green
	Warning   = lipgloss.Color("214") // Orange
	Error     = lipgloss.Color("196") // Red
	Subtle    = lipgloss.Color("241") // Gray
	Surface   = lipgloss.Color("236") // Dark gray
	Text      = lipgloss.Color("252") // Light gray
	TextDim   = lipgloss.Color("245") // Dimmer text

	// Header and status bar
	HeaderStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Background(Surface).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(Text).
				Background(Surface).
				Bold(true)

	// Content area
	ContentStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// Page title
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Log lines
	OutputStyle  = lipgloss.NewStyle().Foreground(Text)
	InfoStyle    = lipgloss.NewStyle().Foreground(Secondary)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)

	// General
	BoldStyle     = lipgloss.NewStyle().Bold(true)
	DimStyle      = lipgloss.NewStyle().Foreground(TextDim)
	SelectedStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	DisabledStyle = lipgloss.NewStyle().Foreground(Subtle).Strikethrough(true)
)
