/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/allbin/v5serial"
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset <port>",
	Short: "Reset a VEX device over USB",
	Long: `Perform a USB-level reset on a VEX device. This can recover a brain
that is hung or unresponsive without physically unplugging it.

The device will re-enumerate after reset, which may cause the port path
to change (e.g., /dev/ttyACM0 might become /dev/ttyACM2).

Requirements:
- Linux
- usbreset utility must be installed (from usbutils package)
- Root/sudo permissions required for USB operations

Example:
  sudo v5serial reset /dev/ttyACM0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !v5serial.IsUSBResetAvailable() {
			fmt.Fprintln(os.Stderr, "Install with: sudo apt-get install usbutils")
			return v5serial.ErrUSBResetNotAvailable
		}

		manager, err := current.newManager()
		if err != nil {
			return err
		}

		port := args[0]
		fmt.Fprintf(cmd.OutOrStdout(), "Resetting USB device: %s\n", port)
		if err := manager.Reset(cmd.Context(), port); err != nil {
			if errors.Is(err, v5serial.ErrUSBInfoNotAvailable) {
				fmt.Fprintln(os.Stderr, "No USB bus/device number is known for this port")
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "USB device reset successfully")
		fmt.Fprintln(cmd.OutOrStdout(), "Device will re-enumerate (port path may change)")
		fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'v5serial list --table' to see updated device list")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
