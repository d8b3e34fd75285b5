package v5serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.bug.st/serial"
)

// Port is the part of a go.bug.st/serial port a Connection relies on
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(timeout time.Duration) error
	ResetInputBuffer() error
}

// OpenFunc opens a named serial port
type OpenFunc func(name string, mode *serial.Mode) (Port, error)

// openSystemPort is the default OpenFunc
func openSystemPort(name string, mode *serial.Mode) (Port, error) {
	if err := checkAccess(name); err != nil {
		return nil, err
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		var portErr *serial.PortError
		if errors.As(err, &portErr) && portErr.Code() == serial.PermissionDenied {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, err
	}
	return p, nil
}

// Connection is an open serial link to a device's system port
type Connection struct {
	id     string
	port   string
	kind   DeviceKind
	opened time.Time

	mu     sync.Mutex
	p      Port
	closed bool
}

// ID uniquely identifies this connection for the life of the process
func (c *Connection) ID() string { return c.id }

// Port returns the system port the connection was opened on
func (c *Connection) Port() string { return c.port }

// Kind returns the kind of device on the other end
func (c *Connection) Kind() DeviceKind { return c.kind }

// OpenedAt returns when the port finished opening
func (c *Connection) OpenedAt() time.Time { return c.opened }

func (c *Connection) Read(buf []byte) (int, error) {
	c.mu.Lock()
	p, closed := c.p, c.closed
	c.mu.Unlock()
	if closed {
		return 0, ErrConnectionClosed
	}
	return p.Read(buf)
}

func (c *Connection) Write(data []byte) (int, error) {
	c.mu.Lock()
	p, closed := c.p, c.closed
	c.mu.Unlock()
	if closed {
		return 0, ErrConnectionClosed
	}
	return p.Write(data)
}

// Closed reports whether Close has been called
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close releases the port. Calling it more than once is safe.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.p.Close()
}

// openConnection opens dev's system port within ctx. A port that finishes
// opening after ctx is done is closed in the background.
func openConnection(ctx context.Context, open OpenFunc, dev Device, cfg Config) (*Connection, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	type result struct {
		port Port
		err  error
	}
	done := make(chan result, 1)
	go func() {
		p, err := open(dev.SystemPort, mode)
		done <- result{port: p, err: err}
	}()

	var p Port
	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		p = r.port
	case <-ctx.Done():
		go func() {
			if r := <-done; r.err == nil && r.port != nil {
				r.port.Close()
			}
		}()
		return nil, ctx.Err()
	}

	if cfg.ReadTimeout > 0 {
		if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	if err := p.ResetInputBuffer(); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to flush input: %w", err)
	}

	return &Connection{
		id:     uuid.NewString(),
		port:   dev.SystemPort,
		kind:   dev.Kind,
		opened: time.Now(),
		p:      p,
	}, nil
}
