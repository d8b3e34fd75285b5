/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/allbin/v5serial"
	"github.com/allbin/v5serial/internal/tui/styles"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached VEX devices",
	Long: `List the system ports of every attached VEX brain and controller.

Only USB serial ports with the VEX vendor ID are reported. Each brain
exposes two ports; only its system port is listed, since that is the one
a connection is made to. Use --table to see both ports of each device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tableFormat, _ := cmd.Flags().GetBool("table")
		jsonFormat, _ := cmd.Flags().GetBool("json")

		manager, err := current.newManager()
		if err != nil {
			return err
		}

		devices, err := manager.Devices(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case jsonFormat:
			return renderJSON(out, devices)
		case len(devices) == 0:
			fmt.Fprintln(out, "No VEX devices found")
			return nil
		case tableFormat:
			renderTable(out, devices)
		default:
			renderSimple(out, v5serial.SystemPorts(devices))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
	listCmd.Flags().Bool("json", false, "Print device descriptors as JSON")
	listCmd.MarkFlagsMutuallyExclusive("table", "json")
}

func renderJSON(w io.Writer, devices []v5serial.Device) error {
	if devices == nil {
		devices = []v5serial.Device{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(devices)
}

// renderTable renders the device list in a styled static table format
func renderTable(w io.Writer, devices []v5serial.Device) {
	fmt.Fprintf(w, "Found %d VEX device(s):\n\n", len(devices))

	portWidth := 16
	kindWidth := 12
	serialWidth := 14

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		portWidth, "System port",
		portWidth, "User port",
		kindWidth, "Kind",
		serialWidth, "Serial",
		"Product")
	fmt.Fprintln(w, styles.ListHeaderStyle.Render(header))

	for _, d := range devices {
		system, user := d.SystemPort, d.UserPort
		if system == "" {
			system = "-"
		}
		if user == "" {
			user = "-"
		}
		row := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
			portWidth, system,
			portWidth, user,
			kindWidth, d.Kind,
			serialWidth, d.SerialNumber,
			d.Product)
		fmt.Fprintln(w, styles.ListCellStyle.Render(row))
	}
}

// renderSimple prints one system port per line
func renderSimple(w io.Writer, ports []string) {
	for _, port := range ports {
		fmt.Fprintln(w, port)
	}
}
