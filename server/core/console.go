package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/spf13/cobra"
)

// Console runs operator commands against a server, one line at a time:
//
//	/toggle <id>   (also /toggle-<id>)
//	/set <id> on|off
//	/list
type Console struct {
	server *Server
	root   *cobra.Command
}

func NewConsole(s *Server) *Console {
	c := &Console{server: s}

	c.root = &cobra.Command{
		Use:           "console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.root.SetOut(io.Discard)
	c.root.SetErr(io.Discard)

	c.root.AddCommand(
		&cobra.Command{
			Use:  "toggle <id>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.Toggle(args[0])
			},
		},
		&cobra.Command{
			Use:  "set <id> <on|off>",
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				on, err := netconfig.ParseSwitch(args[1])
				if err != nil {
					return err
				}
				return s.Set(args[0], on)
			},
		},
		&cobra.Command{
			Use:  "list",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, info := range s.registry.Catalogue() {
					a, _ := s.registry.Authority(info.ID)
					on, rev := a.Snapshot()
					s.log.Info("toggle", "id", info.ID, "on", on, "revision", rev)
				}
				return nil
			},
		},
	)
	return c
}

// Exec runs one console line. Toggle and set are queued for the next tick.
// Blank lines are ignored.
func (c *Console) Exec(line string) error {
	args := consoleArgs(line)
	if len(args) == 0 {
		return nil
	}
	c.root.SetArgs(args)
	if err := c.root.Execute(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

// Run reads lines from r until EOF, logging failures.
func (c *Console) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := c.Exec(scanner.Text()); err != nil {
			c.server.log.Warn("console", "line", scanner.Text(), "err", err)
		}
	}
}

func consoleArgs(line string) []string {
	args := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	if len(args) == 0 {
		return nil
	}
	if id, ok := strings.CutPrefix(args[0], "toggle-"); ok && id != "" {
		return append([]string{"toggle", id}, args[1:]...)
	}
	return args
}
