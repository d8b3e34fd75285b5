package styles

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
var (
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Text     = lipgloss.Color("#cdd6f4")

	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Background(Surface0).
			Padding(0, 1)

	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(Green).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(Red).
				Bold(true)

	StatusConnectingStyle = lipgloss.NewStyle().
				Foreground(Yellow).
				Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Text)

	TableHighlightStyle = lipgloss.NewStyle().
				Foreground(Text).
				Background(Surface1)

	// Rows for devices that cannot be connected to
	DimStyle = lipgloss.NewStyle().
			Foreground(Overlay0)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Red)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Subtext0)

	// Used by `list --table`
	ListHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(Surface2)

	ListCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

type StatusType int

const (
	StatusConnected StatusType = iota
	StatusDisconnected
	StatusConnecting
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusConnected:
		return StatusConnectedStyle
	case StatusConnecting:
		return StatusConnectingStyle
	case StatusError:
		return ErrorStyle
	default:
		return StatusDisconnectedStyle
	}
}
