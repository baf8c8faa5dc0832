package crafty

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Action is a server lifecycle command. Success means the panel accepted
// the command, not that the action has completed.
type Action string

const (
	ActionStart   Action = "start_server"
	ActionStop    Action = "stop_server"
	ActionRestart Action = "restart_server"
	ActionKill    Action = "kill_server"
)

func (a Action) Valid() bool {
	switch a {
	case ActionStart, ActionStop, ActionRestart, ActionKill:
		return true
	}
	return false
}

// Label is the short human name used in messages and confirmations.
func (a Action) Label() string {
	switch a {
	case ActionStart:
		return "Start"
	case ActionStop:
		return "Stop"
	case ActionRestart:
		return "Restart"
	case ActionKill:
		return "Kill"
	}
	return string(a)
}

type stdinRequest struct {
	Command string `json:"command"`
}

// ListServers returns the servers the token's user may see.
func (c *Client) ListServers(ctx context.Context, token string) ([]ServerInfo, error) {
	var servers []ServerInfo
	if err := c.do(ctx, http.MethodGet, "api/v2/servers", token, nil, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// GetServerStats fetches and normalizes one server's stats snapshot.
func (c *Client) GetServerStats(ctx context.Context, token, serverID string) (ServerStats, error) {
	var stats ServerStats
	path := fmt.Sprintf("api/v2/servers/%s/stats", url.PathEscape(serverID))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &stats); err != nil {
		return ServerStats{}, err
	}
	if stats.ServerID == "" {
		stats.ServerID = serverID
	}
	return stats, nil
}

// PerformAction sends a lifecycle command. Fire-and-report: an accepted
// stop does not mean the process has exited yet.
func (c *Client) PerformAction(ctx context.Context, token, serverID string, action Action) error {
	if !action.Valid() {
		return fmt.Errorf("unknown server action %q", action)
	}
	path := fmt.Sprintf("api/v2/servers/%s/action/%s", url.PathEscape(serverID), action)
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}

// SendCommand writes a console command to the server's stdin, verbatim.
func (c *Client) SendCommand(ctx context.Context, token, serverID, command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrEmptyCommand
	}
	path := fmt.Sprintf("api/v2/servers/%s/stdin", url.PathEscape(serverID))
	return c.do(ctx, http.MethodPost, path, token, stdinRequest{Command: command}, nil)
}

// GetLogs returns the most recent console lines in server-emitted order.
func (c *Client) GetLogs(ctx context.Context, token, serverID string) ([]string, error) {
	var lines []string
	path := fmt.Sprintf("api/v2/servers/%s/logs", url.PathEscape(serverID))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
