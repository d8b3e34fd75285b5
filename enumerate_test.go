package v5serial

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func stubPortsList(t *testing.T, details []*enumerator.PortDetails, err error) {
	t.Helper()
	orig := getDetailedPortsList
	getDetailedPortsList = func() ([]*enumerator.PortDetails, error) {
		return details, err
	}
	t.Cleanup(func() { getDetailedPortsList = orig })
}

func TestSystemEnumeratorFiltersNonUSB(t *testing.T) {
	stubPortsList(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		nil,
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "2888", PID: "0501", SerialNumber: "ABC", Product: "V5 Brain"},
		{Name: "COM3", IsUSB: true, VID: "2888", PID: "0503"},
	}, nil)

	ports, err := SystemEnumerator{}.Ports(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 2)

	assert.Equal(t, "/dev/ttyACM0", ports[0].Name)
	assert.Equal(t, "2888", ports[0].VendorID)
	assert.Equal(t, "0501", ports[0].ProductID)
	assert.Equal(t, "ABC", ports[0].SerialNumber)
	assert.Equal(t, "V5 Brain", ports[0].Product)
	assert.Equal(t, "COM3", ports[1].Name)
}

func TestSystemEnumeratorLowercasesIDs(t *testing.T) {
	stubPortsList(t, []*enumerator.PortDetails{
		{Name: "COM3", IsUSB: true, VID: "2888", PID: "0A0B"},
	}, nil)

	ports, err := SystemEnumerator{}.Ports(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, "0a0b", ports[0].ProductID)
}

func TestSystemEnumeratorError(t *testing.T) {
	stubPortsList(t, nil, errBus)

	_, err := SystemEnumerator{}.Ports(context.Background())
	assert.ErrorIs(t, err, errBus)
}

func TestSystemEnumeratorCancelled(t *testing.T) {
	stubPortsList(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SystemEnumerator{}.Ports(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindDevices(t *testing.T) {
	bus := &fakeBus{}
	bus.set(append(brainPorts("COM3", "COM4", "B1"), controllerPort("COM5"))...)

	devices, err := FindDevices(context.Background(), bus)
	require.NoError(t, err)
	assert.Equal(t, []string{"COM3", "COM5"}, SystemPorts(devices))
}

func TestFindDevicesWrapsEnumerationFailure(t *testing.T) {
	bus := &fakeBus{}
	bus.fail(errBus)

	devices, err := FindDevices(context.Background(), bus)
	assert.Nil(t, devices)

	var enumErr *EnumerationError
	require.True(t, errors.As(err, &enumErr))
	assert.ErrorIs(t, err, errBus)
	assert.Contains(t, err.Error(), "driver not loaded")
}

func TestEnumeratorFunc(t *testing.T) {
	var e Enumerator = EnumeratorFunc(func(ctx context.Context) ([]PortInfo, error) {
		return []PortInfo{controllerPort("COM1")}, nil
	})
	ports, err := e.Ports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "COM1", ports[0].Name)
}
