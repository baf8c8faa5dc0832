package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"craftctl/internal/fleet"
	"craftctl/internal/poll"
	"craftctl/internal/session"
	"craftctl/pkg/crafty"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dashboardModel struct {
	table     table.Model
	store     *fleet.Store
	snapshot  fleet.Snapshot
	client    *crafty.Client
	token     string
	ctx       context.Context
	width     int
	height    int
	isLoading bool
	message   string
	selected  string
	quitting  bool
}

type repaintMsg time.Time
type settleMsg struct{}
type clearMessageMsg struct{}
type actionDoneMsg struct {
	label    string
	serverID string
	err      error
}

// RunDashboard shows the fleet table until the user quits or picks a
// server. It returns the picked server id, or "" on quit. A background
// poller refreshes the snapshot store at the given interval; the UI only
// ever reads published snapshots.
func RunDashboard(client *crafty.Client, sessions *session.Store, interval time.Duration) string {
	sess := sessions.Current()
	if !sess.Active() {
		return ""
	}

	store := &fleet.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := poll.New(interval, func(ctx context.Context) error {
		servers, err := fleet.FetchAll(ctx, client, sess.Token)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		store.Update(servers, err)
		return err
	})
	poller.Start(ctx)
	defer poller.Stop()

	columns := []table.Column{
		{Title: "Sts", Width: 3},
		{Title: "ID", Width: 12},
		{Title: "Name", Width: 22},
		{Title: "Ver", Width: 10},
		{Title: "Players", Width: 8},
		{Title: "CPU", Width: 7},
		{Title: "Mem", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := dashboardModel{
		table:     t,
		store:     store,
		client:    client,
		token:     sess.Token,
		ctx:       ctx,
		isLoading: true,
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	finalModel, err := program.Run()
	if err != nil {
		fmt.Printf("Error running dashboard: %v\n", err)
		return ""
	}

	if m, ok := finalModel.(dashboardModel); ok && !m.quitting {
		return m.selected
	}
	return ""
}

func (m dashboardModel) Init() tea.Cmd {
	return repaintCmd()
}

func repaintCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return repaintMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "s":
			return m.runAction(crafty.ActionStart)
		case "x":
			return m.runAction(crafty.ActionStop)
		case "r":
			return m.runAction(crafty.ActionRestart)
		case "K":
			return m.runAction(crafty.ActionKill)
		case "enter":
			if row := m.table.SelectedRow(); len(row) > 1 {
				m.selected = row[1]
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 10)
		m.table.SetHeight(msg.Height - 12)

	case repaintMsg:
		m.snapshot = m.store.Snapshot()
		if !m.snapshot.LastUpdated.IsZero() {
			m.isLoading = false
		}
		m.updateTable()
		return m, repaintCmd()

	case actionDoneMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("%s %s failed: %v", msg.label, msg.serverID, msg.err)
		} else {
			m.message = fmt.Sprintf("%s command sent to %s", msg.label, msg.serverID)
		}
		return m, tea.Batch(
			tea.Tick(poll.ActionSettle, func(time.Time) tea.Msg { return settleMsg{} }),
			tea.Tick(4*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} }),
		)

	case settleMsg:
		// Off-cadence refresh so the table reflects the action sooner
		// than the next poll tick. A settle still in flight when the
		// view's context dies must not publish into the store.
		return m, func() tea.Msg {
			servers, err := fleet.FetchAll(m.ctx, m.client, m.token)
			if m.ctx.Err() == nil {
				m.store.Update(servers, err)
			}
			return repaintMsg(time.Now())
		}

	case clearMessageMsg:
		m.message = ""
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) runAction(action crafty.Action) (tea.Model, tea.Cmd) {
	row := m.table.SelectedRow()
	if len(row) < 2 {
		return m, nil
	}
	id := row[1]

	var stats *crafty.ServerStats
	for _, sw := range m.snapshot.Servers {
		if sw.Info.ServerID == id {
			stats = sw.Stats
			break
		}
	}
	if stats != nil {
		if action == crafty.ActionStart && stats.Running {
			m.message = fmt.Sprintf("Server %s is already running", id)
			return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })
		}
		if (action == crafty.ActionStop || action == crafty.ActionRestart) && !stats.Running {
			m.message = fmt.Sprintf("Server %s is not running", id)
			return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })
		}
	}

	m.message = fmt.Sprintf("%s %s...", action.Label(), id)
	return m, func() tea.Msg {
		err := m.client.PerformAction(m.ctx, m.token, id, action)
		return actionDoneMsg{label: action.Label(), serverID: id, err: err}
	}
}

func (m *dashboardModel) updateTable() {
	rows := []table.Row{}
	for _, sw := range m.snapshot.Servers {
		status := "🔴"
		players, cpu, mem := "-", "-", "-"
		version := "-"
		if sw.Stats != nil {
			switch {
			case sw.Stats.Crashed:
				status = "💥"
			case sw.Stats.Running:
				status = "🟢"
			case sw.Stats.WaitingStart || sw.Stats.Updating:
				status = "🟡"
			}
			players = fmt.Sprintf("%d/%d", sw.Stats.Online, sw.Stats.Max)
			cpu = fmt.Sprintf("%.1f%%", sw.Stats.CPUPercent)
			if !sw.Stats.Memory.IsZero() {
				mem = sw.Stats.Memory.String()
			}
			if sw.Stats.Version != "" {
				version = sw.Stats.Version
			}
		}

		rows = append(rows, table.Row{
			status,
			sw.Info.ServerID,
			sw.Info.ServerName,
			version,
			players,
			cpu,
			mem,
		})
	}
	m.table.SetRows(rows)
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := headerStyle.Render("CRAFTCTL")
	clock := subHeaderStyle.Render(time.Now().Format("Mon Jan 2 15:04:05"))

	snap := m.snapshot
	info := fmt.Sprintf("Panel: %s  |  Servers: %d  |  Players: %d/%d  |  CPU avg: %.1f%%  |  Mem avg: %.1f%%",
		m.client.BaseURL(), len(snap.Servers),
		snap.TotalPlayers(), snap.TotalMaxPlayers(),
		snap.AvgCPU(), snap.AvgMemPercent())
	if m.isLoading {
		info = "Loading fleet..."
	}
	if snap.Offline() {
		info += "  " + offlineStyle.Render("PANEL UNREACHABLE")
	}

	headerBox := baseStyle.
		Width(m.width-4).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, title, clock, " ", info))

	tableContainer := baseStyle.
		Width(m.width - 4).
		Height(m.height - 12).
		Render(m.table.View())

	footerText := lipgloss.NewStyle().MarginLeft(2).Render(helpLine(
		[2]string{"↑/↓", "navigate"},
		[2]string{"s", "start"},
		[2]string{"x", "stop"},
		[2]string{"r", "restart"},
		[2]string{"K", "kill"},
		[2]string{"enter", "console"},
		[2]string{"q", "quit"},
	))
	if m.message != "" {
		footerText = lipgloss.NewStyle().MarginLeft(2).Render(messageStyle.Render(m.message)) + "\n" + footerText
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		headerBox,
		tableContainer,
		footerText,
	)
}
