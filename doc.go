// Package v5serial finds VEX Robotics V5 and EXP devices on the serial bus
// and manages a single connection to one of them.
//
// # Basic Usage
//
// Create a manager, list the attached devices and connect to one:
//
//	m, err := v5serial.NewManager()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	ports, err := m.ListPorts(ctx)
//	// ports == ["/dev/ttyACM0"]
//
//	if err := m.Connect(ctx, ports[0]); err != nil {
//	    log.Fatal(err)
//	}
//	conn := m.Current()
//
// # Device Discovery
//
// Devices are recognised by the VEX USB vendor ID (0x2888). A brain exposes
// two ports: the system port, used for device communication, and the user
// port that carries program output. Controllers expose only a system port.
//
//	devices, err := m.Devices(ctx)
//	for _, d := range devices {
//	    fmt.Printf("%s system=%s user=%s serial=%s\n",
//	        d.Kind, d.SystemPort, d.UserPort, d.SerialNumber)
//	}
//
// Every call queries the operating system again; nothing is cached.
//
// # Connections
//
// Connect re-enumerates, finds the device whose system port matches exactly,
// and opens it within the caller's context and the configured connect timeout
// (one second by default). A successful Connect replaces the stored
// connection and closes the previous one. Concurrent Connect calls run one
// at a time.
//
//	m, _ := v5serial.NewManager(
//	    v5serial.WithConnectTimeout(2*time.Second),
//	    v5serial.WithLogger(logger),
//	    v5serial.WithObserver(func(ev v5serial.Event) { ... }),
//	)
//
// # Error Handling
//
// Failures carry a type per stage:
//
//	*EnumerationError     // the device query failed
//	*DeviceNotFoundError  // no device with that system port
//	*ConnectionError      // the port could not be opened in time
//
// Use errors.As for the types, or errors.Is for the sentinels:
//
//	if errors.Is(err, v5serial.ErrDeviceNotFound) { ... }
//	if errors.Is(err, context.DeadlineExceeded) { ... }
//
// # Platform Support
//
// Enumeration and connections work wherever go.bug.st/serial does. USB
// interface numbers and device reset are Linux-only and rely on sysfs and
// the usbreset utility.
package v5serial
