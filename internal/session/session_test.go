package session

import (
	"errors"
	"testing"
)

func TestStore_LoginLogoutLifecycle(t *testing.T) {
	var store Store

	if store.Current().Active() {
		t.Fatal("fresh store should be logged out")
	}

	if err := store.Begin("https://panel.example.com/", "tok", "7"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	got := store.Current()
	if !got.Active() {
		t.Fatal("session inactive after Begin")
	}
	if got.BaseURL == "" || got.Token == "" || got.UserID == "" {
		t.Fatalf("partial session after Begin: %+v", got)
	}

	store.End()
	got = store.Current()
	if got.BaseURL != "" || got.Token != "" || got.UserID != "" {
		t.Fatalf("partial session after End: %+v", got)
	}
}

func TestStore_BeginRejectsIncomplete(t *testing.T) {
	var store Store
	_ = store.Begin("https://panel.example.com/", "old-token", "1")

	tests := []struct{ baseURL, token, userID string }{
		{"", "tok", "7"},
		{"https://panel.example.com/", "", "7"},
		{"https://panel.example.com/", "tok", ""},
	}
	for _, tt := range tests {
		if err := store.Begin(tt.baseURL, tt.token, tt.userID); !errors.Is(err, ErrIncomplete) {
			t.Errorf("Begin(%q,%q,%q) error = %v, want ErrIncomplete", tt.baseURL, tt.token, tt.userID, err)
		}
	}

	// A failed Begin must not disturb the existing session.
	if got := store.Current(); got.Token != "old-token" {
		t.Fatalf("failed Begin clobbered session: %+v", got)
	}
}

func TestStore_BeginReplacesWholesale(t *testing.T) {
	var store Store
	_ = store.Begin("https://a.example.com/", "tok-a", "1")
	_ = store.Begin("https://b.example.com/", "tok-b", "2")

	got := store.Current()
	if got.BaseURL != "https://b.example.com/" || got.Token != "tok-b" || got.UserID != "2" {
		t.Fatalf("session not replaced wholesale: %+v", got)
	}
}
