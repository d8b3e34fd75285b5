/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/v5serial/internal/tui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect [port]",
	Short: "Connect to a VEX device",
	Long: `Open the system port of an attached VEX device and hold the connection
until interrupted.

Without a port an interactive picker lists the attached devices; choose
one with the arrow keys and press enter to connect.

Example usage:
  v5serial connect
  v5serial connect /dev/ttyACM0
  v5serial connect COM3 --timeout 3s`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")

		manager, err := current.newManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		if len(args) == 0 {
			p := tea.NewProgram(models.NewPicker(manager, timeout), tea.WithAltScreen())
			_, err := p.Run()
			return err
		}

		port := args[0]
		ctx := cmd.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := manager.Connect(ctx, port); err != nil {
			return err
		}

		status := manager.Status()
		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s (%s)\n", status.Port, status.Kind)
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to disconnect")

		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()

		current.log.Info("disconnecting", zap.String("port", port),
			zap.Duration("held", time.Since(status.Since)))
		return manager.Disconnect()
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().DurationP("timeout", "t", 0, "Give up if the port is not open within this duration (0 uses serial.connect_timeout)")
}
