/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/allbin/v5serial"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display details of the VEX device behind a port",
	Long: `Display details of the VEX device that owns a port, including its kind,
both brain ports and USB metadata.

Examples:
  v5serial info /dev/ttyACM0
  v5serial info COM3

Either port of a brain may be given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port := args[0]

		manager, err := current.newManager()
		if err != nil {
			return err
		}
		devices, err := manager.Devices(cmd.Context())
		if err != nil {
			return err
		}

		d, ok := deviceByPort(devices, port)
		if !ok {
			return &v5serial.DeviceNotFoundError{Port: port}
		}
		printDevice(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func deviceByPort(devices []v5serial.Device, port string) (v5serial.Device, bool) {
	for _, d := range devices {
		if port != "" && (d.SystemPort == port || d.UserPort == port) {
			return d, true
		}
	}
	return v5serial.Device{}, false
}

func printDevice(w io.Writer, d v5serial.Device) {
	fmt.Fprintf(w, "Device Information: %s\n\n", d.Kind)
	if d.SystemPort != "" {
		fmt.Fprintf(w, "  System port:  %s\n", d.SystemPort)
	} else {
		fmt.Fprintf(w, "  System port:  (missing, not connectable)\n")
	}
	if d.UserPort != "" {
		fmt.Fprintf(w, "  User port:    %s\n", d.UserPort)
	}

	fmt.Fprintln(w, "\nUSB Device Information:")
	fmt.Fprintf(w, "  Vendor ID:    %s\n", d.VendorID)
	fmt.Fprintf(w, "  Product ID:   %s\n", d.ProductID)
	if d.SerialNumber != "" {
		fmt.Fprintf(w, "  Serial:       %s\n", d.SerialNumber)
	}
	if d.Product != "" {
		fmt.Fprintf(w, "  Product:      %s\n", d.Product)
	}
}
