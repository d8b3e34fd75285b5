/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/allbin/v5serial"
	"github.com/allbin/v5serial/internal/config"
	"github.com/allbin/v5serial/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

// app holds what every subcommand shares once flags are parsed
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *logger.Logger
}

var current *app

// managerOptions are applied after the config-derived options
var managerOptions []v5serial.Option

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "v5serial",
	Short: "Find and connect to VEX V5 and EXP devices over USB serial",
	Long: `v5serial lists VEX brains and controllers attached over USB and holds
a single active connection to one of them.

Configuration is read from v5serial.yaml in the working directory or the
user config directory, and from V5SERIAL_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			_ = current.log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./v5serial.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func setup(cmd *cobra.Command) (*app, error) {
	v := config.New(cfgFile)
	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if path := v.ConfigFileUsed(); path != "" {
		log.Debug("loaded config", zap.String("file", path))
	}

	return &app{v: v, cfg: cfg, log: log}, nil
}

// newManager builds a Manager from the loaded serial settings
func (a *app) newManager(opts ...v5serial.Option) (*v5serial.Manager, error) {
	base := []v5serial.Option{
		v5serial.WithConfig(v5serial.Config{
			BaudRate:       a.cfg.Serial.BaudRate,
			ConnectTimeout: a.cfg.Serial.ConnectTimeout,
			ReadTimeout:    a.cfg.Serial.ReadTimeout,
		}),
		v5serial.WithLogger(a.log.Logger),
	}
	base = append(base, managerOptions...)
	return v5serial.NewManager(append(base, opts...)...)
}

// watchLogLevel applies log.level changes from the config file while a
// long-running command is up
func (a *app) watchLogLevel() {
	config.Watch(a.v, func(cfg *config.Config, err error) {
		if err != nil {
			a.log.Warn("ignoring invalid config change", zap.Error(err))
			return
		}
		if logger.ParseLevel(cfg.Log.Level) != a.log.Level() {
			a.log.SetLevel(cfg.Log.Level)
			a.log.Info("log level changed", zap.String("level", cfg.Log.Level))
		}
	})
}
