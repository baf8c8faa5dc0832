package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"craftctl/internal/fleet"
	"craftctl/pkg/crafty"
)

func newFleetServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		if r.URL.Path == "/api/v2/servers" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "ok",
				"data": []map[string]interface{}{
					{"server_id": "srv1", "server_name": "lobby"},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"data":   map[string]interface{}{"server_id": "srv1", "running": true},
		})
	}))
}

func TestDashboard_SettleSkipsPublishAfterCancel(t *testing.T) {
	var requests int32
	server := newFleetServer(t, &requests)
	defer server.Close()

	client, err := crafty.NewClient(server.URL, crafty.Options{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &fleet.Store{}
	m := dashboardModel{client: client, token: "tok", store: store, ctx: ctx}

	_, cmd := m.Update(settleMsg{})
	if cmd == nil {
		t.Fatal("settle produced no refresh command")
	}
	cmd()

	if snap := store.Snapshot(); !snap.LastUpdated.IsZero() {
		t.Fatal("settle refresh published into the store after cancellation")
	}
}

func TestDashboard_SettlePublishesWhileLive(t *testing.T) {
	var requests int32
	server := newFleetServer(t, &requests)
	defer server.Close()

	client, err := crafty.NewClient(server.URL, crafty.Options{})
	if err != nil {
		t.Fatal(err)
	}

	store := &fleet.Store{}
	m := dashboardModel{client: client, token: "tok", store: store, ctx: context.Background()}

	_, cmd := m.Update(settleMsg{})
	cmd()

	snap := store.Snapshot()
	if snap.LastUpdated.IsZero() {
		t.Fatal("live settle refresh did not publish")
	}
	if len(snap.Servers) != 1 || snap.Servers[0].Info.ServerID != "srv1" {
		t.Fatalf("unexpected snapshot servers: %+v", snap.Servers)
	}
}
