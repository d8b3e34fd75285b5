/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/v5serial"
	"github.com/allbin/v5serial/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the device API over HTTP",
	Long: `Run a local HTTP API for UI shells.

Routes:
  GET  /api/devices        system ports (?detail=1 for full descriptors)
  POST /api/connect        {"port": "...", "timeout_ms": 0}
  POST /api/disconnect
  GET  /api/status
  GET  /ws/events          connection events as JSON over WebSocket

The listen address comes from server.addr or --addr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = current.cfg.Server.Addr
		}
		if current.log.Level() > zap.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		hub := server.NewHub(current.log.Named("ws"))
		manager, err := current.newManager(v5serial.WithObserver(func(ev v5serial.Event) {
			hub.Publish(ev)
		}))
		if err != nil {
			return err
		}
		defer manager.Close()

		current.watchLogLevel()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go hub.Run(ctx)

		srv := server.New(manager, hub, current.log.Named("http"))
		return srv.Run(ctx, addr, current.cfg.Server.ShutdownTimeout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
