package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/server/core"
	"github.com/automoto/togglesync/shared/logging"
	"github.com/automoto/togglesync/shared/protocol"
	"github.com/spf13/cobra"
)

var (
	configFile string
	port       uint
	tickRate   int
	console    bool
)

var rootCmd = &cobra.Command{
	Use:          "togglesync-server",
	Short:        "Dedicated toggle state server",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServer(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}
		if cmd.Flags().Changed("tickrate") {
			cfg.Server.TickRate = tickRate
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := logging.Init(cfg.Log.Level); err != nil {
			return err
		}
		return run(cfg)
	},
}

func run(cfg config.ServerConfig) error {
	log := logging.For("server")

	if err := protocol.RegisterComponents(); err != nil {
		return err
	}

	var store core.Store
	if cfg.Persistence.Enabled {
		gs, err := core.OpenGdataStore(cfg.Persistence.AppName)
		if err != nil {
			log.Warn("persistence disabled", "err", err)
		} else {
			store = gs
		}
	}

	server, err := core.NewServer(cfg, store)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down server")
		server.Stop()
		os.Exit(0)
	}()

	if console {
		go core.NewConsole(server).Run(os.Stdin)
	}

	if cfg.Metrics.Port > 0 {
		go func() {
			log.Info("metrics available", "url", fmt.Sprintf("http://localhost:%d/debug/statsviz/", cfg.Metrics.Port))
			if err := core.ServeMetrics(cfg.Metrics.Port); err != nil {
				log.Error("metrics server stopped", "err", err)
			}
		}()
	}

	log.Info("starting server", "name", cfg.Server.Name, "port", cfg.Server.Port,
		"tickRate", cfg.Server.TickRate, "toggles", len(cfg.Toggles), "version", cfg.Server.Version)
	return server.Start(cfg.Server.Port)
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.Flags().UintVar(&port, "port", 7373, "server port")
	rootCmd.Flags().IntVar(&tickRate, "tickrate", 20, "server tick rate (updates per second)")
	rootCmd.Flags().BoolVar(&console, "console", true, "read /toggle, /set and /list commands from stdin")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.For("server").Error("fatal", "err", err)
		os.Exit(1)
	}
}
