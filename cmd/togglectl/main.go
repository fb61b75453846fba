package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/togglesync/components"
	"github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/network"
	"github.com/automoto/togglesync/shared/logging"
	"github.com/automoto/togglesync/shared/messages"
	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/automoto/togglesync/shared/protocol"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "togglectl",
	Short:        "Inspect and drive toggles on a togglesync server",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logLevel); err != nil {
			return err
		}
		return protocol.RegisterComponents()
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a toggle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return request(cmd.Context(), args[0], func(c *network.Client) error {
			return c.RequestToggle(args[0])
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <id> <on|off>",
	Short: "Set a toggle to a value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := netconfig.ParseSwitch(args[1])
		if err != nil {
			return err
		}
		return request(cmd.Context(), args[0], func(c *network.Client) error {
			return c.RequestSet(args[0], on)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log every committed toggle change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return watch(ctx)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&config.Client.Address, "addr", config.Client.Address, "server address (host:port)")
	flags.StringVar(&config.Client.Name, "name", "togglectl", "client name sent on join")
	flags.StringVar(&config.Client.Version, "version", config.Client.Version, "protocol version sent on join")
	flags.DurationVar(&config.Client.JoinTimeout, "timeout", config.Client.JoinTimeout, "how long to wait for the server to accept the join")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(toggleCmd, setCmd, watchCmd)
}

// join connects and blocks until the server accepts the client.
func join(ctx context.Context) (*network.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, config.Client.JoinTimeout)
	defer cancel()

	client := network.NewClient()
	client.Connect(config.Client.Address, config.Client.Version, config.Client.Name)

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		switch client.State() {
		case network.StateJoinedGame:
			return client, nil
		case network.StateError:
			client.Disconnect()
			return nil, client.LastError()
		}
		select {
		case <-ctx.Done():
			client.Disconnect()
			return nil, fmt.Errorf("join %s: %w", config.Client.Address, ctx.Err())
		case <-ticker.C:
		}
	}
}

func request(ctx context.Context, id string, send func(*network.Client) error) error {
	log := logging.For("togglectl")

	client, err := join(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	if !hasToggle(client.Toggles(), id) {
		return fmt.Errorf("server %q has no toggle %q", client.ServerName(), id)
	}
	if err := send(client); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	// Rejections arrive asynchronously; give the server a moment to answer.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(config.Client.SettleDuration):
	}
	for _, r := range client.DrainRejections() {
		if r.ToggleID == id {
			return fmt.Errorf("toggle %q rejected: %s", id, r.Reason)
		}
	}
	log.Info("request sent", "toggle", id, "server", client.ServerName())
	return nil
}

func hasToggle(catalogue []messages.ToggleInfo, id string) bool {
	for _, info := range catalogue {
		if info.ID == id {
			return true
		}
	}
	return false
}

// watch mirrors the server like a viewer without a screen: views are bound
// to the replica but never animate.
func watch(ctx context.Context) error {
	log := logging.For("watch")

	client, err := join(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	replica := network.NewReplica()
	views := headlessViews(client.Toggles(), log)
	log.Info("watching", "server", client.ServerName(), "toggles", len(views))

	interval := time.Second / 20
	if rate := client.TickRate(); rate > 0 {
		interval = time.Second / time.Duration(rate)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if st := client.State(); st != network.StateJoinedGame {
			return fmt.Errorf("connection lost: %s", st)
		}
		if snap := client.LatestSnapshot(); snap != nil {
			for _, c := range replica.ApplySnapshot(*snap) {
				log.Info("toggle", "id", c.ID, "on", c.On, "rev", c.Revision)
			}
		}
		for i := range views {
			views[i].Bind(replica)
		}
		for _, r := range client.DrainRejections() {
			log.Warn("rejected", "toggle", r.ToggleID, "reason", r.Reason)
		}
	}
}

func headlessViews(catalogue []messages.ToggleInfo, log *log.Logger) []components.ToggleViewData {
	views := make([]components.ToggleViewData, 0, len(catalogue))
	for slot, info := range catalogue {
		v, err := components.NewToggleViewData(slot, info, true)
		if err != nil {
			log.Error("skipping toggle", "toggle", info.ID, "err", err)
			continue
		}
		views = append(views, v)
	}
	return views
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.For("togglectl").Error("fatal", "err", err)
		os.Exit(1)
	}
}
