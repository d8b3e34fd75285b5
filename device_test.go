package v5serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		pid  string
		want DeviceKind
	}{
		{"0501", KindBrain},
		{"0600", KindBrain},
		{"0503", KindController},
		{"0610", KindController},
		{"0ABC", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, kindOf(tt.pid), "pid %q", tt.pid)
	}
}

func TestDeviceKindString(t *testing.T) {
	assert.Equal(t, "brain", KindBrain.String())
	assert.Equal(t, "controller", KindController.String())
	assert.Equal(t, "unknown", KindUnknown.String())

	text, err := KindController.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "controller", string(text))
}

func TestGroupDevices(t *testing.T) {
	tests := []struct {
		name  string
		ports []PortInfo
		want  []Device
	}{
		{
			name:  "no ports",
			ports: nil,
			want:  []Device{},
		},
		{
			name: "foreign vendor ignored",
			ports: []PortInfo{
				{Name: "/dev/ttyUSB0", VendorID: "0403", ProductID: "6001"},
			},
			want: []Device{},
		},
		{
			name: "controller has only a system port",
			ports: []PortInfo{
				{Name: "COM4", VendorID: "2888", ProductID: "0503"},
			},
			want: []Device{
				{Kind: KindController, SystemPort: "COM4", VendorID: "2888", ProductID: "0503"},
			},
		},
		{
			name:  "brain paired by interface number",
			ports: brainPorts("/dev/ttyACM0", "/dev/ttyACM1", "B1"),
			want: []Device{
				{Kind: KindBrain, SystemPort: "/dev/ttyACM0", UserPort: "/dev/ttyACM1", SerialNumber: "B1", VendorID: "2888", ProductID: "0501"},
			},
		},
		{
			name: "user port listed first",
			ports: []PortInfo{
				{Name: "/dev/ttyACM1", VendorID: "2888", ProductID: "0501", SerialNumber: "B1", Interface: "02"},
				{Name: "/dev/ttyACM0", VendorID: "2888", ProductID: "0501", SerialNumber: "B1", Interface: "00"},
			},
			want: []Device{
				{Kind: KindBrain, SystemPort: "/dev/ttyACM0", UserPort: "/dev/ttyACM1", SerialNumber: "B1", VendorID: "2888", ProductID: "0501"},
			},
		},
		{
			name: "role from product string",
			ports: []PortInfo{
				{Name: "COM6", VendorID: "2888", ProductID: "0501", SerialNumber: "B2", Product: "VEX Robotics User Port"},
				{Name: "COM5", VendorID: "2888", ProductID: "0501", SerialNumber: "B2", Product: "VEX Robotics Communications Port"},
			},
			want: []Device{
				{Kind: KindBrain, SystemPort: "COM5", UserPort: "COM6", SerialNumber: "B2", Product: "VEX Robotics User Port", VendorID: "2888", ProductID: "0501"},
			},
		},
		{
			name: "role from order when nothing else is known",
			ports: []PortInfo{
				{Name: "COM3", VendorID: "2888", ProductID: "0501", SerialNumber: "B3"},
				{Name: "COM7", VendorID: "2888", ProductID: "0501", SerialNumber: "B3"},
			},
			want: []Device{
				{Kind: KindBrain, SystemPort: "COM3", UserPort: "COM7", SerialNumber: "B3", VendorID: "2888", ProductID: "0501"},
			},
		},
		{
			name: "brain seen only through its user port",
			ports: []PortInfo{
				{Name: "/dev/ttyACM3", VendorID: "2888", ProductID: "0501", SerialNumber: "B4", Interface: "02"},
			},
			want: []Device{
				{Kind: KindBrain, UserPort: "/dev/ttyACM3", SerialNumber: "B4", VendorID: "2888", ProductID: "0501"},
			},
		},
		{
			name: "mixed devices keep first-seen order",
			ports: append(append([]PortInfo{controllerPort("COM9")}, brainPorts("COM3", "COM4", "B5")...),
				PortInfo{Name: "COM2", VendorID: "2888", ProductID: "ffff"}),
			want: []Device{
				{Kind: KindController, SystemPort: "COM9", SerialNumber: "C-COM9", VendorID: "2888", ProductID: "0503"},
				{Kind: KindBrain, SystemPort: "COM3", UserPort: "COM4", SerialNumber: "B5", VendorID: "2888", ProductID: "0501"},
				{Kind: KindUnknown, SystemPort: "COM2", VendorID: "2888", ProductID: "ffff"},
			},
		},
		{
			name: "brains without serial numbers are not merged",
			ports: []PortInfo{
				{Name: "COM3", VendorID: "2888", ProductID: "0501"},
				{Name: "COM5", VendorID: "2888", ProductID: "0501"},
			},
			want: []Device{
				{Kind: KindBrain, SystemPort: "COM3", VendorID: "2888", ProductID: "0501"},
				{Kind: KindBrain, SystemPort: "COM5", VendorID: "2888", ProductID: "0501"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, groupDevices(tt.ports))
		})
	}
}

func TestSystemPortsSkipsUnconnectable(t *testing.T) {
	devices := []Device{
		{Kind: KindBrain, SystemPort: "COM3"},
		{Kind: KindBrain, UserPort: "COM8"},
		{Kind: KindController, SystemPort: "COM5"},
	}
	assert.Equal(t, []string{"COM3", "COM5"}, SystemPorts(devices))
	assert.Equal(t, []string{}, SystemPorts(nil))
}
