package v5serial

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType names a connection lifecycle change
type EventType string

const (
	EventConnected     EventType = "connected"
	EventDisconnected  EventType = "disconnected"
	EventConnectFailed EventType = "connect_failed"
	EventReplaced      EventType = "replaced"
)

// Event is delivered to observers after each lifecycle change
type Event struct {
	Type  EventType `json:"type"`
	Port  string    `json:"port"`
	ID    string    `json:"id,omitempty"`
	Error string    `json:"error,omitempty"`
	Time  time.Time `json:"time"`
}

// Status is a snapshot of the manager's connection cell
type Status struct {
	Connected bool       `json:"connected"`
	Port      string     `json:"port,omitempty"`
	ID        string     `json:"id,omitempty"`
	Kind      DeviceKind `json:"kind"`
	Since     time.Time  `json:"since,omitzero"`
}

// Manager owns the single active device connection.
//
// Connect calls are serialized end to end: enumeration, lookup, open and
// store all happen under connectMu. The connection cell itself has its own
// lock so readers are never held up by a slow open.
type Manager struct {
	cfg       Config
	enum      Enumerator
	open      OpenFunc
	log       *zap.Logger
	observers []func(Event)
	reset     func(ctx context.Context, info PortInfo) error

	connectMu sync.Mutex

	mu   sync.RWMutex
	conn *Connection
}

// NewManager creates an empty manager. Without options it talks to real
// hardware with DefaultConfig.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:   DefaultConfig(),
		enum:  SystemEnumerator{},
		open:  openSystemPort,
		log:   zap.NewNop(),
		reset: resetUSBDevice,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WithEnumerator replaces the device query
func WithEnumerator(e Enumerator) Option {
	return func(m *Manager) error {
		if e == nil {
			return ErrInvalidConfig
		}
		m.enum = e
		return nil
	}
}

// WithOpener replaces how serial ports are opened
func WithOpener(open OpenFunc) Option {
	return func(m *Manager) error {
		if open == nil {
			return ErrInvalidConfig
		}
		m.open = open
		return nil
	}
}

// WithLogger sets the logger; nil keeps the no-op logger
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) error {
		if log != nil {
			m.log = log
		}
		return nil
	}
}

// WithObserver registers fn for lifecycle events. Observers run synchronously
// on the calling goroutine and must not call back into the Manager.
func WithObserver(fn func(Event)) Option {
	return func(m *Manager) error {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
		return nil
	}
}

// Config returns the active configuration
func (m *Manager) Config() Config {
	return m.cfg
}

// Devices returns every VEX device currently attached
func (m *Manager) Devices(ctx context.Context) ([]Device, error) {
	devices, err := FindDevices(ctx, m.enum)
	if err != nil {
		m.log.Warn("device enumeration failed", zap.Error(err))
		return nil, err
	}
	m.log.Debug("enumerated devices", zap.Int("count", len(devices)))
	return devices, nil
}

// ListPorts returns the system ports of attached VEX devices in enumeration
// order. No devices yields an empty slice.
func (m *Manager) ListPorts(ctx context.Context) ([]string, error) {
	devices, err := m.Devices(ctx)
	if err != nil {
		return nil, err
	}
	return SystemPorts(devices), nil
}

// Connect opens the device whose system port equals port and makes it the
// active connection. The previous connection, if any, is closed after the
// swap. On any failure the stored connection is left untouched.
func (m *Manager) Connect(ctx context.Context, port string) error {
	m.connectMu.Lock()
	defer m.connectMu.Unlock()

	log := m.log.With(zap.String("port", port))

	devices, err := m.Devices(ctx)
	if err != nil {
		m.emit(Event{Type: EventConnectFailed, Port: port, Error: err.Error()})
		return err
	}

	dev, ok := findBySystemPort(devices, port)
	if !ok {
		err := &DeviceNotFoundError{Port: port}
		log.Info("connect target not attached")
		m.emit(Event{Type: EventConnectFailed, Port: port, Error: err.Error()})
		return err
	}

	log.Debug("opening system port", zap.Stringer("kind", dev.Kind), zap.Duration("timeout", m.cfg.ConnectTimeout))
	conn, err := openConnection(ctx, m.open, dev, m.cfg)
	if err != nil {
		cerr := &ConnectionError{Port: port, Err: err}
		log.Warn("open failed", zap.Error(err))
		m.emit(Event{Type: EventConnectFailed, Port: port, Error: cerr.Error()})
		return cerr
	}

	m.mu.Lock()
	prev := m.conn
	m.conn = conn
	m.mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			log.Warn("closing replaced connection", zap.String("replaced_port", prev.Port()), zap.Error(err))
		}
		m.emit(Event{Type: EventReplaced, Port: prev.Port(), ID: prev.ID()})
	}

	log.Info("connected", zap.String("id", conn.ID()), zap.Stringer("kind", conn.Kind()))
	m.emit(Event{Type: EventConnected, Port: conn.Port(), ID: conn.ID()})
	return nil
}

func findBySystemPort(devices []Device, port string) (Device, bool) {
	for _, d := range devices {
		if d.SystemPort != "" && d.SystemPort == port {
			return d, true
		}
	}
	return Device{}, false
}

// Current returns the active connection, or nil
func (m *Manager) Current() *Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// Status returns a snapshot of the active connection
func (m *Manager) Status() Status {
	conn := m.Current()
	if conn == nil {
		return Status{}
	}
	return Status{
		Connected: true,
		Port:      conn.Port(),
		ID:        conn.ID(),
		Kind:      conn.Kind(),
		Since:     conn.OpenedAt(),
	}
}

// Disconnect closes and clears the active connection
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	err := conn.Close()
	if err != nil {
		m.log.Warn("close failed", zap.String("port", conn.Port()), zap.Error(err))
	}
	m.log.Info("disconnected", zap.String("port", conn.Port()), zap.String("id", conn.ID()))
	m.emit(Event{Type: EventDisconnected, Port: conn.Port(), ID: conn.ID()})
	return err
}

// Close releases the active connection, if any. Used at shutdown.
func (m *Manager) Close() error {
	if err := m.Disconnect(); err != nil && !errors.Is(err, ErrNotConnected) {
		return err
	}
	return nil
}

func (m *Manager) emit(ev Event) {
	if len(m.observers) == 0 {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	for _, fn := range m.observers {
		fn(ev)
	}
}
