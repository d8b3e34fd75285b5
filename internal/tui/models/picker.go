package models

import (
	"context"
	"fmt"
	"time"

	"github.com/allbin/v5serial"
	"github.com/allbin/v5serial/internal/tui/components"
	"github.com/allbin/v5serial/internal/tui/keys"
	"github.com/allbin/v5serial/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

// DeviceSource is what the picker needs from *v5serial.Manager
type DeviceSource interface {
	Devices(ctx context.Context) ([]v5serial.Device, error)
	Connect(ctx context.Context, port string) error
	Disconnect() error
	Status() v5serial.Status
}

type DevicesMsg struct {
	Devices []v5serial.Device
	Err     error
}

type ConnectResultMsg struct {
	Port string
	Err  error
}

type DisconnectResultMsg struct {
	Err error
}

const (
	colPort    = "port"
	colKind    = "kind"
	colUser    = "user"
	colSerial  = "serial"
	colProduct = "product"
)

// Picker lists attached devices and connects to the highlighted one
type Picker struct {
	dev     DeviceSource
	timeout time.Duration

	table      table.Model
	devices    []v5serial.Device
	statusBar  *components.StatusBar
	help       help.Model
	keys       keys.PickerKeys
	connecting bool
	width      int
}

// NewPicker builds the picker. timeout bounds each connect attempt on top of
// the manager's own timeout; zero leaves it to the manager.
func NewPicker(dev DeviceSource, timeout time.Duration) *Picker {
	columns := []table.Column{
		table.NewColumn(colPort, "System port", 22),
		table.NewColumn(colKind, "Kind", 12),
		table.NewColumn(colUser, "User port", 22),
		table.NewColumn(colSerial, "Serial", 16),
		table.NewColumn(colProduct, "Product", 24),
	}

	p := &Picker{
		dev:     dev,
		timeout: timeout,
		table: table.New(columns).
			Focused(true).
			BorderRounded().
			HeaderStyle(styles.TableHeaderStyle).
			HighlightStyle(styles.TableHighlightStyle),
		statusBar: components.NewStatusBar("v5serial"),
		help:      help.New(),
		keys:      keys.NewPickerKeys(),
	}
	p.statusBar.SetStatus(dev.Status())
	return p
}

func (p *Picker) Init() tea.Cmd {
	return p.refresh()
}

func (p *Picker) refresh() tea.Cmd {
	dev := p.dev
	return func() tea.Msg {
		devices, err := dev.Devices(context.Background())
		return DevicesMsg{Devices: devices, Err: err}
	}
}

func (p *Picker) connect(port string) tea.Cmd {
	dev, timeout := p.dev, p.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ConnectResultMsg{Port: port, Err: dev.Connect(ctx, port)}
	}
}

func (p *Picker) disconnect() tea.Cmd {
	dev := p.dev
	return func() tea.Msg {
		return DisconnectResultMsg{Err: dev.Disconnect()}
	}
}

// Selected returns the highlighted device
func (p *Picker) Selected() (v5serial.Device, bool) {
	i := p.table.GetHighlightedRowIndex()
	if i < 0 || i >= len(p.devices) {
		return v5serial.Device{}, false
	}
	return p.devices[i], true
}

func (p *Picker) Devices() []v5serial.Device {
	return p.devices
}

func (p *Picker) Connecting() bool {
	return p.connecting
}

func (p *Picker) StatusBar() *components.StatusBar {
	return p.statusBar
}

func (p *Picker) setDevices(devices []v5serial.Device) {
	p.devices = devices
	rows := make([]table.Row, 0, len(devices))
	for _, d := range devices {
		user := d.UserPort
		if user == "" {
			user = "-"
		}
		row := table.NewRow(table.RowData{
			colPort:    d.SystemPort,
			colKind:    d.Kind.String(),
			colUser:    user,
			colSerial:  d.SerialNumber,
			colProduct: d.Product,
		})
		if !d.Connectable() {
			row = row.WithStyle(styles.DimStyle)
		}
		rows = append(rows, row)
	}
	p.table = p.table.WithRows(rows)
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.statusBar.SetWidth(msg.Width)
		p.help.Width = msg.Width
		return p, nil

	case DevicesMsg:
		if msg.Err != nil {
			p.statusBar.SetError(msg.Err)
			return p, nil
		}
		p.setDevices(msg.Devices)
		p.statusBar.SetStatus(p.dev.Status())
		p.statusBar.SetMessage(fmt.Sprintf("%d device(s)", len(msg.Devices)))
		return p, nil

	case ConnectResultMsg:
		p.connecting = false
		if msg.Err != nil {
			p.statusBar.SetError(msg.Err)
			return p, nil
		}
		p.statusBar.SetStatus(p.dev.Status())
		return p, nil

	case DisconnectResultMsg:
		if msg.Err != nil {
			p.statusBar.SetError(msg.Err)
			return p, nil
		}
		p.statusBar.SetStatus(p.dev.Status())
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p, tea.Quit

		case key.Matches(msg, p.keys.Help):
			p.help.ShowAll = !p.help.ShowAll
			return p, nil

		case key.Matches(msg, p.keys.Refresh):
			return p, p.refresh()

		case key.Matches(msg, p.keys.Disconnect):
			if p.connecting {
				return p, nil
			}
			return p, p.disconnect()

		case key.Matches(msg, p.keys.Connect):
			if p.connecting {
				return p, nil
			}
			d, ok := p.Selected()
			if !ok {
				return p, nil
			}
			if !d.Connectable() {
				p.statusBar.SetMessage(fmt.Sprintf("%s has no system port", d.SerialNumber))
				return p, nil
			}
			p.connecting = true
			p.statusBar.SetConnecting(d.SystemPort)
			return p, p.connect(d.SystemPort)
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p *Picker) View() string {
	var body string
	if len(p.devices) == 0 {
		body = styles.InfoStyle.Padding(1, 2).Render("No VEX devices found. Press r to refresh.")
	} else {
		body = p.table.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		p.help.View(p.keys),
		p.statusBar.View(),
	)
}
