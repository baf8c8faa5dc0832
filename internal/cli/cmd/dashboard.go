package cmd

import (
	"craftctl/internal/cli/ui"
)

// RunDashboard drives the dashboard/detail navigation loop until the user
// quits, then ends the session.
func RunDashboard() {
	for {
		serverID := ui.RunDashboard(Client, &Sessions, Cfg.PollInterval())
		if serverID == "" {
			break
		}
		back := ui.RunServerDetail(Client, &Sessions, serverID, Cfg.PollInterval())
		if !back {
			break
		}
	}
	Sessions.End()
}
