package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"craftctl/internal/poll"
	"craftctl/internal/session"
	"craftctl/pkg/crafty"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// logFilters is the cycle order for the level filter key.
var logFilters = []string{"all", "info", "warn", "error"}

type detailModel struct {
	client     *crafty.Client
	token      string
	serverID   string
	interval   time.Duration
	viewport   viewport.Model
	textInput  textinput.Model
	lines      []crafty.LogLine
	filter     int
	stats      *crafty.ServerStats
	message    string
	ready      bool
	refreshing bool
	quitting   bool
	back       bool
	width      int
	height     int
}

// detailRefreshMsg carries one completed refresh. hasLines distinguishes
// an empty log from a failed fetch, which keeps the previous content.
type detailRefreshMsg struct {
	lines    []crafty.LogLine
	hasLines bool
	stats    *crafty.ServerStats
}

type detailTickMsg time.Time
type commandSettleMsg struct{}
type commandSentMsg struct{ err error }

func newDetailModel(client *crafty.Client, token, serverID string, interval time.Duration) detailModel {
	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	ti.Focus()
	ti.CharLimit = 156

	return detailModel{
		client:    client,
		token:     token,
		serverID:  serverID,
		interval:  interval,
		textInput: ti,
	}
}

func (m detailModel) Init() tea.Cmd {
	// The first tick fires immediately; the refresh guard takes it from
	// there.
	return tea.Batch(
		textinput.Blink,
		func() tea.Msg { return detailTickMsg(time.Now()) },
	)
}

func detailTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return detailTickMsg(t)
	})
}

// fetchDetailCmd runs one refresh: logs then stats, sequentially, so a
// single command never holds more than one request open. A failed call
// leaves its field unset and the previous content stands.
func fetchDetailCmd(client *crafty.Client, token, serverID string) tea.Cmd {
	return func() tea.Msg {
		var msg detailRefreshMsg
		if lines, err := client.GetLogs(context.Background(), token, serverID); err == nil {
			msg.lines = crafty.ParseLogLines(lines)
			msg.hasLines = true
		}
		if stats, err := client.GetServerStats(context.Background(), token, serverID); err == nil {
			msg.stats = &stats
		}
		return msg
	}
}

func (m detailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEsc:
			m.back = true
			return m, tea.Quit
		case tea.KeyCtrlF:
			m.filter = (m.filter + 1) % len(logFilters)
			m.refreshContent()
			return m, nil
		case tea.KeyEnter:
			command := m.textInput.Value()
			if strings.TrimSpace(command) == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			return m, func() tea.Msg {
				err := m.client.SendCommand(context.Background(), m.token, m.serverID, command)
				return commandSentMsg{err: err}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 14
		contentWidth := msg.Width - 6

		if !m.ready {
			m.viewport = viewport.New(contentWidth, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = msg.Height - headerHeight
		}
		m.refreshContent()

	case detailRefreshMsg:
		m.refreshing = false
		if msg.hasLines {
			m.lines = msg.lines
			m.refreshContent()
		}
		if msg.stats != nil {
			m.stats = msg.stats
		}
		return m, nil

	case commandSentMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Command failed: %v", msg.err)
			return m, nil
		}
		m.message = ""
		// Give the server a moment to echo the command into its log.
		return m, tea.Tick(poll.CommandSettle, func(time.Time) tea.Msg {
			return commandSettleMsg{}
		})

	case commandSettleMsg:
		// Off-cadence refresh after a command; the regular tick chain
		// stays single. Skipped when a refresh is already out.
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, fetchDetailCmd(m.client, m.token, m.serverID)

	case detailTickMsg:
		cmds := []tea.Cmd{detailTickCmd(m.interval)}
		// At most one refresh in flight: a tick landing while the
		// previous fetch is still out only reschedules.
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, fetchDetailCmd(m.client, m.token, m.serverID))
		}
		return m, tea.Batch(cmds...)
	}

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *detailModel) refreshContent() {
	if !m.ready {
		return
	}
	filter := logFilters[m.filter]
	var b strings.Builder
	for _, line := range m.lines {
		if !line.MatchesLevel(filter) {
			continue
		}
		style, ok := levelStyles[line.Level]
		if !ok {
			style = levelStyles["INFO"]
		}
		if line.Time != "" {
			b.WriteString(timeStyle.Render(line.Time))
			b.WriteString(" ")
		}
		b.WriteString(style.Render(line.Message))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m detailModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	title := headerStyle.Width(m.width).Render("SERVER CONSOLE")

	info := "Loading server details..."
	if m.stats != nil {
		state := "🔴 stopped"
		if m.stats.Crashed {
			state = "💥 crashed"
		} else if m.stats.Running {
			state = "🟢 running"
		} else if m.stats.WaitingStart {
			state = "🟡 starting"
		}
		players := "nobody online"
		if len(m.stats.Players) > 0 {
			players = strings.Join(m.stats.Players, ", ")
		}
		info = fmt.Sprintf(
			"Server: %s  •  %s  •  %d/%d players\nVersion: %s  •  World: %s\nOnline: %s",
			m.serverID, state, m.stats.Online, m.stats.Max,
			m.stats.Version, m.stats.WorldName, players,
		)
	}

	headerBox := baseStyle.
		Width(m.width-4).
		Align(lipgloss.Center).
		Render(info)

	console := baseStyle.
		Width(m.width - 4).
		Render(m.viewport.View())

	inputLine := fmt.Sprintf("→ %s", m.textInput.View())

	help := helpLine(
		[2]string{"ctrl+f", "filter: " + logFilters[m.filter]},
		[2]string{"esc", "back"},
		[2]string{"ctrl+c", "quit"},
	)
	helpCentered := lipgloss.NewStyle().
		Width(m.width - 6).
		Align(lipgloss.Center).
		Render(help)

	footerContent := inputLine
	if m.message != "" {
		footerContent += "\n" + messageStyle.Render(m.message)
	}
	footerContent += "\n" + helpCentered

	footerBox := footerStyle.
		Width(m.width - 4).
		Render(footerContent)

	return lipgloss.JoinVertical(lipgloss.Center,
		title,
		headerBox,
		console,
		footerBox,
	)
}

// RunServerDetail shows one server's console until the user leaves.
// It returns true when the user wants back to the dashboard, false on quit.
func RunServerDetail(client *crafty.Client, sessions *session.Store, serverID string, interval time.Duration) bool {
	sess := sessions.Current()
	if !sess.Active() {
		return false
	}

	p := tea.NewProgram(
		newDetailModel(client, sess.Token, serverID, interval),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		log.Printf("Error running console view: %v", err)
		return true
	}

	if m, ok := finalModel.(detailModel); ok {
		return m.back
	}
	return false
}
