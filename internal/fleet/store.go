package fleet

import (
	"sync"
	"time"
)

// Snapshot is the latest fleet state published to consumers. Each refresh
// replaces it atomically; readers never see a half-updated view.
type Snapshot struct {
	Servers             []ServerWithStats
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Offline reports whether the panel has been unreachable for multiple
// refreshes in a row.
func (s Snapshot) Offline() bool {
	return s.ConsecutiveFailures >= 2
}

// TotalPlayers sums online players across the fleet.
func (s Snapshot) TotalPlayers() int {
	total := 0
	for _, sw := range s.Servers {
		if sw.Stats != nil {
			total += sw.Stats.Online
		}
	}
	return total
}

// TotalMaxPlayers sums the player capacity across the fleet.
func (s Snapshot) TotalMaxPlayers() int {
	total := 0
	for _, sw := range s.Servers {
		if sw.Stats != nil {
			total += sw.Stats.Max
		}
	}
	return total
}

// AvgCPU averages CPU usage over all servers; entries without stats count
// as zero, matching what the dashboard displays for them.
func (s Snapshot) AvgCPU() float64 {
	if len(s.Servers) == 0 {
		return 0
	}
	var sum float64
	for _, sw := range s.Servers {
		if sw.Stats != nil {
			sum += sw.Stats.CPUPercent
		}
	}
	return sum / float64(len(s.Servers))
}

// AvgMemPercent averages memory usage the same way.
func (s Snapshot) AvgMemPercent() float64 {
	if len(s.Servers) == 0 {
		return 0
	}
	var sum float64
	for _, sw := range s.Servers {
		if sw.Stats != nil {
			sum += sw.Stats.MemPercent
		}
	}
	return sum / float64(len(s.Servers))
}

// Store coordinates concurrent access to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update publishes a new snapshot. On error the previous server data is
// kept and only the error bookkeeping changes.
func (s *Store) Update(servers []ServerWithStats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Servers = cloneServers(servers)
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Servers = cloneServers(s.snapshot.Servers)
	return snap
}

func cloneServers(servers []ServerWithStats) []ServerWithStats {
	if len(servers) == 0 {
		return nil
	}
	dup := make([]ServerWithStats, len(servers))
	copy(dup, servers)
	return dup
}
