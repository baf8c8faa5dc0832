package crafty

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// This file absorbs the panel's inconsistent field encodings. Everything in
// it is pure and total: no I/O, and unparseable input degrades to an empty
// list, zero, or the original string instead of an error.

// ParsePlayers normalizes the stats players field. Observed encodings:
// a list literal (`["Alice","Bob"]`, sometimes with single quotes), a bare
// comma-joined string (`Alice,Bob`), or the literal "False" meaning nobody
// is online.
func ParsePlayers(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "[]" || strings.EqualFold(trimmed, "false") {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return splitNames(trimmed[1 : len(trimmed)-1])
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasSuffix(trimmed, "]") {
		// Unbalanced brackets: neither a list literal nor a bare name.
		return nil
	}
	return splitNames(trimmed)
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		name = strings.Trim(name, `"'`)
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Memory holds the stats mem field, which is either a numeric value or a
// pre-formatted label like "3.7GB" depending on the panel version. Labels
// are kept verbatim; no unit conversion is attempted. Dashboards wanting a
// comparable number should use ServerStats.MemPercent.
type Memory struct {
	value   float64
	label   string
	numeric bool
}

func NumericMemory(v float64) Memory {
	return Memory{value: v, numeric: true}
}

func LabelMemory(s string) Memory {
	return Memory{label: s}
}

// Value returns the numeric reading and whether one was present.
func (m Memory) Value() (float64, bool) {
	return m.value, m.numeric
}

// IsZero reports whether the panel sent nothing usable.
func (m Memory) IsZero() bool {
	return !m.numeric && m.label == ""
}

// String renders whichever form the panel sent, for display.
func (m Memory) String() string {
	if m.numeric {
		return strconv.FormatFloat(m.value, 'f', -1, 64)
	}
	return m.label
}

// ParseMemory decodes the raw mem field.
func ParseMemory(raw json.RawMessage) Memory {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Memory{}
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return NumericMemory(n)
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return LabelMemory(strings.TrimSpace(s))
	}
	return LabelMemory(strings.TrimSpace(string(trimmed)))
}

// LogLine is one parsed console line. Derived deterministically from the
// raw text; recomputed on every fetch.
type LogLine struct {
	Raw     string
	Time    string
	Level   string
	Message string
}

var logLinePattern = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2})\] \[.*?/(INFO|WARN|ERROR|DEBUG|FATAL)\]: (.*)$`)

// ParseLogLine matches the vanilla server log shape
// "[HH:MM:SS] [thread/LEVEL]: message". Anything else becomes an INFO line
// carrying the raw text.
func ParseLogLine(raw string) LogLine {
	if m := logLinePattern.FindStringSubmatch(raw); m != nil {
		return LogLine{Raw: raw, Time: m[1], Level: m[2], Message: m[3]}
	}
	return LogLine{Raw: raw, Time: "", Level: "INFO", Message: raw}
}

// ParseLogLines parses a whole fetch in server-emitted order.
func ParseLogLines(raw []string) []LogLine {
	if len(raw) == 0 {
		return nil
	}
	lines := make([]LogLine, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, ParseLogLine(line))
	}
	return lines
}

// MatchesLevel reports whether the line passes a level filter. An empty
// filter or "all" passes everything.
func (l LogLine) MatchesLevel(filter string) bool {
	if filter == "" || strings.EqualFold(filter, "all") {
		return true
	}
	return strings.EqualFold(l.Level, filter)
}
