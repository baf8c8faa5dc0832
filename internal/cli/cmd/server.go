package cmd

import (
	"fmt"
	"strings"
	"time"

	"craftctl/internal/cli/ui"
	"craftctl/internal/fleet"
	"craftctl/internal/poll"
	"craftctl/pkg/crafty"

	"github.com/spf13/cobra"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List servers with their latest stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := login(cmd.Context()); err != nil {
			return err
		}
		sess := Sessions.Current()
		servers, err := fleet.FetchAll(cmd.Context(), Client, sess.Token)
		if err != nil {
			return fmt.Errorf("listing servers: %w", err)
		}
		printServers(servers)
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [server-id]",
	Short: "Watch a server's console and logs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := login(cmd.Context()); err != nil {
			return err
		}
		ui.RunServerDetail(Client, &Sessions, args[0], Cfg.PollInterval())
		Sessions.End()
		return nil
	},
}

var playersCmd = &cobra.Command{
	Use:   "players [server-id]",
	Short: "Show online players with kick/ban/pardon shortcuts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := login(cmd.Context()); err != nil {
			return err
		}
		ui.RunPlayers(Client, &Sessions, args[0])
		Sessions.End()
		return nil
	},
}

var execCmd = &cobra.Command{
	Use:   "exec [server-id] [command...]",
	Short: "Send a console command to a server",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := login(cmd.Context()); err != nil {
			return err
		}
		sess := Sessions.Current()
		command := strings.Join(args[1:], " ")
		if err := Client.SendCommand(cmd.Context(), sess.Token, args[0], command); err != nil {
			return fmt.Errorf("sending command: %w", err)
		}
		fmt.Println("Command sent.")
		return nil
	},
}

func newActionCmd(use string, action crafty.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [server-id]",
		Short: action.Label() + " a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd.Context()); err != nil {
				return err
			}
			sess := Sessions.Current()
			if err := Client.PerformAction(cmd.Context(), sess.Token, args[0], action); err != nil {
				return fmt.Errorf("%s: %w", strings.ToLower(action.Label()), err)
			}
			fmt.Printf("%s command sent to %s.\n", action.Label(), args[0])

			// Accepted is not completed. Wait a moment and report where
			// the server actually is.
			time.Sleep(poll.ActionSettle)
			stats, err := Client.GetServerStats(cmd.Context(), sess.Token, args[0])
			if err != nil {
				fmt.Println("State: unknown (stats unavailable)")
				return nil
			}
			fmt.Printf("State: %s\n", describeState(stats))
			return nil
		},
	}
}

func init() {
	RootCmd.AddCommand(
		serversCmd,
		logsCmd,
		playersCmd,
		execCmd,
		newActionCmd("start", crafty.ActionStart),
		newActionCmd("stop", crafty.ActionStop),
		newActionCmd("restart", crafty.ActionRestart),
		newActionCmd("kill", crafty.ActionKill),
	)
}

func printServers(servers []fleet.ServerWithStats) {
	if len(servers) == 0 {
		fmt.Println("No servers found.")
		return
	}
	fmt.Printf("%-14s %-24s %-10s %-9s %s\n", "ID", "NAME", "STATE", "PLAYERS", "VERSION")
	for _, sw := range servers {
		state, players, version := "unknown", "-", "-"
		if sw.Stats != nil {
			state = describeState(*sw.Stats)
			players = fmt.Sprintf("%d/%d", sw.Stats.Online, sw.Stats.Max)
			if sw.Stats.Version != "" {
				version = sw.Stats.Version
			}
		}
		fmt.Printf("%-14s %-24s %-10s %-9s %s\n", sw.Info.ServerID, sw.Info.ServerName, state, players, version)
	}
}

func describeState(stats crafty.ServerStats) string {
	switch {
	case stats.Crashed:
		return "crashed"
	case stats.Running:
		return "running"
	case stats.WaitingStart:
		return "starting"
	case stats.Updating:
		return "updating"
	default:
		return "stopped"
	}
}
