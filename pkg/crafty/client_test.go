package crafty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"bare host", "panel.example.com", "https://panel.example.com/", false},
		{"host with port", "panel.example.com:8443", "https://panel.example.com:8443/", false},
		{"explicit https", "https://panel.example.com", "https://panel.example.com/", false},
		{"explicit http", "http://10.0.0.5:8000", "http://10.0.0.5:8000/", false},
		{"trailing slash kept single", "https://panel.example.com///", "https://panel.example.com/", false},
		{"path preserved", "https://panel.example.com/crafty", "https://panel.example.com/crafty/", false},
		{"empty", "", "", true},
		{"whitespace", "   ", "", true},
		{"bad scheme", "ftp://panel.example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("error = %v, want ErrInvalidURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeBaseURL(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func envelopeOK(data interface{}) []byte {
	b, _ := json.Marshal(map[string]interface{}{"status": "ok", "data": data})
	return b
}

func TestClient_Login(t *testing.T) {
	var gotBody loginRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/auth/login" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write(envelopeOK(map[string]string{
			"token":   "tok-123",
			"user_id": "7",
			"warning": "backup code used",
		}))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	creds, err := c.Login(context.Background(), "admin", "hunter2", "123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if creds.Token != "tok-123" || creds.UserID != "7" {
		t.Fatalf("creds = %+v", creds)
	}
	if creds.Warning == "" {
		t.Error("warning dropped")
	}
	if gotBody.Username != "admin" || gotBody.Password != "hunter2" || gotBody.TOTP != "123456" {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestClient_LoginErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		reason AuthReason
	}{
		{http.StatusUnauthorized, AuthInvalidCredentials},
		{http.StatusTooManyRequests, AuthTooManyAttempts},
		{http.StatusForbidden, AuthAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL, Options{})
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			_, err = c.Login(context.Background(), "admin", "wrong", "")
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("error = %v, want *AuthError", err)
			}
			if authErr.Reason != tt.reason {
				t.Errorf("reason = %v, want %v", authErr.Reason, tt.reason)
			}
		})
	}
}

func TestClient_EnvelopeErrorOn2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","error":"NOT_AUTHORIZED","error_data":"no access to server"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.ListServers(context.Background(), "tok")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Error() != "no access to server" {
		t.Errorf("message = %q, want error_data text", apiErr.Error())
	}
	if apiErr.Code != "NOT_AUTHORIZED" {
		t.Errorf("code = %q", apiErr.Code)
	}
}

func TestClient_NetworkErrorKinds(t *testing.T) {
	c, err := NewClient("https://nonexistent.invalid", Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.ListServers(context.Background(), "tok")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.Kind != NetworkUnresolvedHost {
		t.Errorf("kind = %v, want NetworkUnresolvedHost", netErr.Kind)
	}
}

func TestClient_SendCommandRejectsBlank(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.SendCommand(context.Background(), "tok", "srv", "   "); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("error = %v, want ErrEmptyCommand", err)
	}
	if called {
		t.Error("blank command reached the network")
	}
}

// End-to-end: login, list, then stats per server, joining on the server id.
func TestClient_LoginListStatsFlow(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/auth/login":
			_, _ = w.Write(envelopeOK(map[string]string{"token": "tok-1", "user_id": "1"}))
		case "/api/v2/servers":
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-Id")
			_, _ = w.Write(envelopeOK([]map[string]interface{}{
				{"server_id": "a1", "server_name": "lobby", "server_port": 25565},
				{"server_id": "b2", "server_name": "survival", "server_port": "25566"},
			}))
		case "/api/v2/servers/a1/stats":
			_, _ = w.Write(envelopeOK(map[string]interface{}{
				"server_id": map[string]interface{}{"server_id": "a1"},
				"running":   true, "players": `["Alice"]`, "online": 1, "max": 10,
			}))
		case "/api/v2/servers/b2/stats":
			_, _ = w.Write(envelopeOK(map[string]interface{}{
				"server_id": "b2", "running": false, "players": "False",
			}))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	creds, err := c.Login(ctx, "admin", "pw", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	servers, err := c.ListServers(ctx, creds.Token)
	if err != nil {
		t.Fatalf("ListServers: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}
	if servers[1].ServerPort != 25566 {
		t.Errorf("stringified port not decoded: %+v", servers[1])
	}

	for _, info := range servers {
		stats, err := c.GetServerStats(ctx, creds.Token, info.ServerID)
		if err != nil {
			t.Fatalf("GetServerStats(%s): %v", info.ServerID, err)
		}
		if stats.ServerID != info.ServerID {
			t.Errorf("stats id %q does not match requested %q", stats.ServerID, info.ServerID)
		}
	}

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-Id header missing")
	}
}

func TestClient_ActionAndLogs(t *testing.T) {
	var actionPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v2/servers/a1/action/restart_server":
			actionPath = r.URL.Path
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v2/servers/a1/logs":
			_, _ = w.Write(envelopeOK([]string{
				"[12:00:00] [Server thread/INFO]: Starting",
				"raw line",
			}))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	if err := c.PerformAction(ctx, "tok", "a1", ActionRestart); err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	if actionPath == "" {
		t.Fatal("action request never arrived")
	}
	if err := c.PerformAction(ctx, "tok", "a1", Action("explode_server")); err == nil {
		t.Fatal("invalid action accepted")
	}

	lines, err := c.GetLogs(ctx, "tok", "a1")
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if len(lines) != 2 || lines[0] != "[12:00:00] [Server thread/INFO]: Starting" {
		t.Fatalf("lines = %v", lines)
	}
}
