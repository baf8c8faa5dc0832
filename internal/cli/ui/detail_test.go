package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"craftctl/pkg/crafty"

	tea "github.com/charmbracelet/bubbletea"
)

// runCmd executes a command tree synchronously and collects the messages
// it produces. Scheduled ticks run too, so tests use short intervals.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func newConsoleServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		switch {
		case strings.HasSuffix(r.URL.Path, "/logs"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "ok",
				"data":   []string{"[12:01:02] [Server thread/INFO]: Steve joined the game"},
			})
		case strings.HasSuffix(r.URL.Path, "/stats"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "ok",
				"data": map[string]interface{}{
					"server_id": "srv1",
					"running":   true,
					"online":    1,
					"max":       20,
					"players":   "['Steve']",
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestDetailView_RefreshSerialized(t *testing.T) {
	var requests int32
	server := newConsoleServer(t, &requests)
	defer server.Close()

	client, err := crafty.NewClient(server.URL, crafty.Options{})
	if err != nil {
		t.Fatal(err)
	}

	m := newDetailModel(client, "tok", "srv1", 5*time.Millisecond)

	// First tick starts a refresh.
	model, cmd := m.Update(detailTickMsg(time.Now()))
	m = model.(detailModel)
	if !m.refreshing {
		t.Fatal("first tick did not mark a refresh in flight")
	}
	first := runCmd(cmd)
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Fatalf("first refresh made %d requests, want 2 (logs + stats)", got)
	}

	// A tick landing before the refresh result returns must only
	// reschedule, never stack a second fetch.
	model, cmd = m.Update(detailTickMsg(time.Now()))
	m = model.(detailModel)
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(detailRefreshMsg); ok {
			t.Fatal("overlapping tick launched a second refresh")
		}
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Fatalf("requests after overlapping tick = %d, want 2", got)
	}

	// Delivering the result clears the guard and applies the content.
	var refresh detailRefreshMsg
	found := false
	for _, msg := range first {
		if r, ok := msg.(detailRefreshMsg); ok {
			refresh, found = r, true
		}
	}
	if !found {
		t.Fatal("refresh command produced no result message")
	}
	model, _ = m.Update(refresh)
	m = model.(detailModel)
	if m.refreshing {
		t.Fatal("refresh guard still set after result delivery")
	}
	if len(m.lines) != 1 || m.lines[0].Level != "INFO" {
		t.Fatalf("log lines not applied: %+v", m.lines)
	}
	if m.stats == nil || !m.stats.Running {
		t.Fatalf("stats not applied: %+v", m.stats)
	}

	// The next tick fetches again.
	model, cmd = m.Update(detailTickMsg(time.Now()))
	m = model.(detailModel)
	if !m.refreshing {
		t.Fatal("idle tick did not start the next refresh")
	}
	runCmd(cmd)
	if got := atomic.LoadInt32(&requests); got != 4 {
		t.Fatalf("requests after idle tick = %d, want 4", got)
	}
}

func TestDetailView_CommandSettleHonorsRefreshGuard(t *testing.T) {
	var requests int32
	server := newConsoleServer(t, &requests)
	defer server.Close()

	client, err := crafty.NewClient(server.URL, crafty.Options{})
	if err != nil {
		t.Fatal(err)
	}

	m := newDetailModel(client, "tok", "srv1", time.Hour)
	m.refreshing = true

	model, cmd := m.Update(commandSettleMsg{})
	m = model.(detailModel)
	if cmd != nil {
		t.Fatal("settle fetched while a refresh was in flight")
	}

	m.refreshing = false
	model, cmd = m.Update(commandSettleMsg{})
	m = model.(detailModel)
	if !m.refreshing {
		t.Fatal("idle settle did not start a refresh")
	}
	runCmd(cmd)
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Fatalf("idle settle made %d requests, want 2", got)
	}
}

func TestDetailView_FailedRefreshKeepsContent(t *testing.T) {
	m := detailModel{
		lines: []crafty.LogLine{{Time: "12:00:00", Level: "INFO", Message: "prior"}},
	}
	stats := &crafty.ServerStats{Running: true}
	m.stats = stats
	m.refreshing = true

	model, _ := m.Update(detailRefreshMsg{})
	m = model.(detailModel)
	if m.refreshing {
		t.Fatal("guard still set after a failed refresh")
	}
	if len(m.lines) != 1 || m.lines[0].Message != "prior" {
		t.Fatal("failed refresh dropped the previous log content")
	}
	if m.stats != stats {
		t.Fatal("failed refresh dropped the previous stats")
	}
}
