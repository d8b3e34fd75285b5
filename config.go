package v5serial

import "time"

// V5 link defaults.
const (
	DefaultBaudRate       = 115200
	DefaultConnectTimeout = time.Second
	DefaultReadTimeout    = time.Second
)

// Config holds the settings used when opening a device connection
type Config struct {
	BaudRate       int
	ConnectTimeout time.Duration // bounds the open step, on top of the caller's context
	ReadTimeout    time.Duration // applied to the port once it is open
}

// Option is a functional option for configuring a Manager
type Option func(*Manager) error

// DefaultConfig returns a configuration matching the V5 system port
func DefaultConfig() Config {
	return Config{
		BaudRate:       DefaultBaudRate,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
	}
}

// validBaudRates lists the rates the brain and controller firmware accept.
var validBaudRates = map[int]bool{
	9600:   true,
	19200:  true,
	38400:  true,
	57600:  true,
	115200: true,
	230400: true,
	460800: true,
	921600: true,
}

// WithConfig replaces the whole configuration after validating it
func WithConfig(cfg Config) Option {
	return func(m *Manager) error {
		if !validBaudRates[cfg.BaudRate] {
			return ErrInvalidBaudRate
		}
		if cfg.ConnectTimeout < 0 || cfg.ReadTimeout < 0 {
			return ErrInvalidConfig
		}
		m.cfg = cfg
		return nil
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(m *Manager) error {
		if !validBaudRates[rate] {
			return ErrInvalidBaudRate
		}
		m.cfg.BaudRate = rate
		return nil
	}
}

// WithConnectTimeout bounds the open step. Zero disables the internal bound
// and leaves only the caller's context.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(m *Manager) error {
		if timeout < 0 {
			return ErrInvalidConfig
		}
		m.cfg.ConnectTimeout = timeout
		return nil
	}
}

// WithReadTimeout sets the read timeout applied to opened ports
func WithReadTimeout(timeout time.Duration) Option {
	return func(m *Manager) error {
		if timeout < 0 {
			return ErrInvalidConfig
		}
		m.cfg.ReadTimeout = timeout
		return nil
	}
}
