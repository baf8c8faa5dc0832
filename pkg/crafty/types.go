package crafty

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Credentials are issued by a successful login.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	// Warning is set when the panel accepted a backup code instead of a
	// TOTP value. Surface it to the user.
	Warning string `json:"warning,omitempty"`
}

// ServerInfo identifies one managed server. It is a wholesale snapshot:
// each listing replaces the previous one.
type ServerInfo struct {
	ServerID   string
	ServerName string
	Type       string
	ServerIP   string
	ServerPort int
}

func (s *ServerInfo) UnmarshalJSON(b []byte) error {
	var raw struct {
		ServerID   flexString `json:"server_id"`
		ServerName string     `json:"server_name"`
		Type       string     `json:"type"`
		ServerIP   string     `json:"server_ip"`
		ServerPort flexInt    `json:"server_port"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.ServerID = string(raw.ServerID)
	s.ServerName = raw.ServerName
	s.Type = raw.Type
	s.ServerIP = raw.ServerIP
	s.ServerPort = int(raw.ServerPort)
	return nil
}

// ServerStats is one server's normalized stats snapshot. It is ephemeral:
// refetched per poll tick and never persisted.
type ServerStats struct {
	ServerID     string
	Running      bool
	Crashed      bool
	CPUPercent   float64
	Memory       Memory
	MemPercent   float64
	Online       int
	Max          int
	Players      []string
	Version      string
	WorldName    string
	Updating     bool
	WaitingStart bool
}

func (s *ServerStats) UnmarshalJSON(b []byte) error {
	var raw struct {
		ServerID     json.RawMessage `json:"server_id"`
		Running      bool            `json:"running"`
		Crashed      bool            `json:"crashed"`
		CPU          float64         `json:"cpu"`
		Mem          json.RawMessage `json:"mem"`
		MemPercent   float64         `json:"mem_percent"`
		Online       flexInt         `json:"online"`
		Max          flexInt         `json:"max"`
		Players      json.RawMessage `json:"players"`
		Version      string          `json:"version"`
		WorldName    string          `json:"world_name"`
		Updating     bool            `json:"updating"`
		WaitingStart bool            `json:"waiting_start"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.ServerID = statsServerID(raw.ServerID)
	s.Running = raw.Running
	s.Crashed = raw.Crashed
	s.CPUPercent = raw.CPU
	s.Memory = ParseMemory(raw.Mem)
	s.MemPercent = raw.MemPercent
	s.Online = int(raw.Online)
	s.Max = int(raw.Max)
	s.Players = playersFromRaw(raw.Players)
	s.Version = raw.Version
	s.WorldName = raw.WorldName
	s.Updating = raw.Updating
	s.WaitingStart = raw.WaitingStart
	return nil
}

// statsServerID handles the stats endpoint nesting the owning server either
// as a bare id or as a full server object.
func statsServerID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var nested struct {
		ServerID flexString `json:"server_id"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.ServerID != "" {
		return string(nested.ServerID)
	}
	var scalar flexString
	if err := json.Unmarshal(raw, &scalar); err == nil {
		return string(scalar)
	}
	return ""
}

// playersFromRaw feeds whatever the panel sent through the player-list
// normalizer. The field is a string in every observed deployment, but a
// real JSON array is tolerated too.
func playersFromRaw(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParsePlayers(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		var names []string
		for _, name := range list {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				names = append(names, trimmed)
			}
		}
		return names
	}
	return ParsePlayers(string(raw))
}

// flexString decodes a JSON string or number into a string. Panel versions
// disagree on whether server ids are numeric.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

// flexInt decodes a JSON number or numeric string into an int.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = flexInt(parsed)
			return nil
		}
	}
	*f = 0
	return nil
}
