package v5serial

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

// fakePort is an in-memory Port
type fakePort struct {
	name        string
	mu          sync.Mutex
	closed      bool
	readTimeout time.Duration
	timeoutErr  error
}

func (p *fakePort) Read(buf []byte) (int, error)  { return 0, nil }
func (p *fakePort) Write(data []byte) (int, error) { return len(data), nil }
func (p *fakePort) ResetInputBuffer() error        { return nil }

func (p *fakePort) SetReadTimeout(timeout time.Duration) error {
	p.readTimeout = timeout
	return p.timeoutErr
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// fakeOpener records every port it opens
type fakeOpener struct {
	mu     sync.Mutex
	opened []*fakePort
	modes  []*serial.Mode
	fail   map[string]error
	delay  time.Duration
	calls  atomic.Int32
}

func (o *fakeOpener) open(name string, mode *serial.Mode) (Port, error) {
	o.calls.Add(1)
	if o.delay > 0 {
		time.Sleep(o.delay)
	}
	if err := o.fail[name]; err != nil {
		return nil, err
	}
	p := &fakePort{name: name}
	o.mu.Lock()
	o.opened = append(o.opened, p)
	o.modes = append(o.modes, mode)
	o.mu.Unlock()
	return p, nil
}

func (o *fakeOpener) ports() []*fakePort {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakePort(nil), o.opened...)
}

// fakeBus is an Enumerator whose attached ports can change between calls
type fakeBus struct {
	mu    sync.Mutex
	ports []PortInfo
	err   error
	calls int
}

func (b *fakeBus) Ports(ctx context.Context) ([]PortInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return append([]PortInfo(nil), b.ports...), nil
}

func (b *fakeBus) set(ports ...PortInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ports = ports
	b.err = nil
}

func (b *fakeBus) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

func controllerPort(name string) PortInfo {
	return PortInfo{Name: name, VendorID: VendorID, ProductID: ProductV5Controller, SerialNumber: "C-" + name}
}

func brainPorts(system, user, serialNumber string) []PortInfo {
	return []PortInfo{
		{Name: system, VendorID: VendorID, ProductID: ProductV5Brain, SerialNumber: serialNumber, Interface: systemInterface},
		{Name: user, VendorID: VendorID, ProductID: ProductV5Brain, SerialNumber: serialNumber, Interface: userInterface},
	}
}

var errBus = errors.New("driver not loaded")
