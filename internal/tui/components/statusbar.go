package components

import (
	"fmt"
	"time"

	"github.com/allbin/v5serial"
	"github.com/allbin/v5serial/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	title   string
	width   int
	state   styles.StatusType
	port    string
	kind    v5serial.DeviceKind
	since   time.Time
	message string
	err     error
}

func NewStatusBar(title string) *StatusBar {
	return &StatusBar{
		title: title,
		state: styles.StatusDisconnected,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetStatus mirrors the manager's connection cell
func (sb *StatusBar) SetStatus(s v5serial.Status) {
	sb.err = nil
	if s.Connected {
		sb.state = styles.StatusConnected
		sb.port = s.Port
		sb.kind = s.Kind
		sb.since = s.Since
		return
	}
	sb.state = styles.StatusDisconnected
	sb.port = ""
	sb.kind = v5serial.KindUnknown
}

func (sb *StatusBar) SetConnecting(port string) {
	sb.state = styles.StatusConnecting
	sb.port = port
	sb.err = nil
}

func (sb *StatusBar) SetError(err error) {
	sb.state = styles.StatusError
	sb.err = err
}

// SetMessage shows a transient note on the right side
func (sb *StatusBar) SetMessage(msg string) {
	sb.message = msg
}

func (sb *StatusBar) State() styles.StatusType {
	return sb.state
}

func (sb *StatusBar) describe() string {
	switch sb.state {
	case styles.StatusConnected:
		return fmt.Sprintf("● %s (%s) since %s", sb.port, sb.kind, sb.since.Format("15:04:05"))
	case styles.StatusConnecting:
		return fmt.Sprintf("○ connecting to %s...", sb.port)
	case styles.StatusError:
		return fmt.Sprintf("✗ %v", sb.err)
	default:
		return "○ not connected"
	}
}

func (sb *StatusBar) View() string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	title := styles.TitleStyle.Render(sb.title)
	state := styles.GetStatusStyle(sb.state).Padding(0, 1).Render(sb.describe())

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	right := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Padding(0, 1).
		Render(sb.message)

	left := lipgloss.JoinHorizontal(lipgloss.Left, title, state, divider)
	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}
