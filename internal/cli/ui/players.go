package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"craftctl/internal/poll"
	"craftctl/internal/session"
	"craftctl/pkg/crafty"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type playerItem struct {
	name string
}

func (i playerItem) Title() string       { return i.name }
func (i playerItem) Description() string { return "online" }
func (i playerItem) FilterValue() string { return i.name }

type playersModel struct {
	client   *crafty.Client
	token    string
	serverID string
	list     list.Model
	message  string
	width    int
	height   int
}

type playersMsg []string
type playersErrMsg struct{ err error }
type moderationDoneMsg struct {
	verb string
	name string
	err  error
}
type playersRefreshMsg time.Time

func newPlayersModel(client *crafty.Client, token, serverID string) playersModel {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Online Players"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = headerStyle

	return playersModel{
		client:   client,
		token:    token,
		serverID: serverID,
		list:     l,
	}
}

func (m playersModel) Init() tea.Cmd {
	return fetchPlayersCmd(m.client, m.token, m.serverID)
}

func fetchPlayersCmd(client *crafty.Client, token, serverID string) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.GetServerStats(context.Background(), token, serverID)
		if err != nil {
			return playersErrMsg{err: err}
		}
		return playersMsg(stats.Players)
	}
}

func moderateCmd(client *crafty.Client, token, serverID, verb, name string) tea.Cmd {
	return func() tea.Msg {
		command := fmt.Sprintf("%s %s", verb, name)
		err := client.SendCommand(context.Background(), token, serverID, command)
		return moderationDoneMsg{verb: verb, name: name, err: err}
	}
}

func (m playersModel) selectedName() string {
	item, ok := m.list.SelectedItem().(playerItem)
	if !ok {
		return ""
	}
	return item.name
}

func (m playersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, fetchPlayersCmd(m.client, m.token, m.serverID)
		case "k":
			if name := m.selectedName(); name != "" {
				return m, moderateCmd(m.client, m.token, m.serverID, "kick", name)
			}
		case "b":
			if name := m.selectedName(); name != "" {
				return m, moderateCmd(m.client, m.token, m.serverID, "ban", name)
			}
		case "u":
			if name := m.selectedName(); name != "" {
				return m, moderateCmd(m.client, m.token, m.serverID, "pardon", name)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

	case playersMsg:
		items := make([]list.Item, 0, len(msg))
		for _, name := range msg {
			items = append(items, playerItem{name: name})
		}
		m.list.SetItems(items)
		if len(items) == 0 {
			m.message = "No players online."
		} else {
			m.message = ""
		}
		return m, nil

	case playersErrMsg:
		m.message = fmt.Sprintf("Failed to load players: %v", msg.err)
		return m, nil

	case moderationDoneMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("%s %s failed: %v", msg.verb, msg.name, msg.err)
			return m, nil
		}
		m.message = fmt.Sprintf("Sent: %s %s", msg.verb, msg.name)
		return m, tea.Tick(poll.CommandSettle, func(t time.Time) tea.Msg {
			return playersRefreshMsg(t)
		})

	case playersRefreshMsg:
		return m, fetchPlayersCmd(m.client, m.token, m.serverID)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m playersModel) View() string {
	help := helpLine(
		[2]string{"k", "kick"},
		[2]string{"b", "ban"},
		[2]string{"u", "pardon"},
		[2]string{"r", "refresh"},
		[2]string{"esc", "back"},
	)

	footer := help
	if m.message != "" {
		footer = messageStyle.Render(m.message) + "\n" + help
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		baseStyle.Render(m.list.View()),
		footerStyle.Width(m.width-2).Render(footer),
	)
}

// RunPlayers shows the online player list for one server with kick, ban,
// and pardon shortcuts.
func RunPlayers(client *crafty.Client, sessions *session.Store, serverID string) {
	sess := sessions.Current()
	if !sess.Active() {
		return
	}

	p := tea.NewProgram(
		newPlayersModel(client, sess.Token, serverID),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		log.Printf("Error running players view: %v", err)
	}
}
