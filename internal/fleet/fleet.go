// Package fleet assembles the dashboard's view of all managed servers:
// the server listing joined with per-server stats, refreshed as one
// immutable snapshot per poll tick.
package fleet

import (
	"context"
	"log"
	"sync"

	"craftctl/pkg/crafty"
)

// statsFanoutLimit caps concurrent stats requests so a large fleet cannot
// flood the panel.
const statsFanoutLimit = 8

// API is the slice of the panel client the fleet refresh needs.
type API interface {
	ListServers(ctx context.Context, token string) ([]crafty.ServerInfo, error)
	GetServerStats(ctx context.Context, token, serverID string) (crafty.ServerStats, error)
}

// ServerWithStats pairs a server's identity with its latest stats. Stats is
// nil when that server's stats call failed; the pairing itself stays valid
// and Info.ServerID is the join key.
type ServerWithStats struct {
	Info  crafty.ServerInfo
	Stats *crafty.ServerStats
}

// FetchAll lists the servers and fans out one stats request per server,
// bounded by statsFanoutLimit. A per-server stats failure degrades that
// entry to Stats == nil; only a failed listing fails the whole call. The
// result preserves the panel's listing order.
func FetchAll(ctx context.Context, api API, token string) ([]ServerWithStats, error) {
	servers, err := api.ListServers(ctx, token)
	if err != nil {
		return nil, err
	}

	results := make([]ServerWithStats, len(servers))
	sem := make(chan struct{}, statsFanoutLimit)
	var wg sync.WaitGroup

	for i, info := range servers {
		results[i] = ServerWithStats{Info: info}
		wg.Add(1)
		go func(i int, serverID string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			stats, err := api.GetServerStats(ctx, token, serverID)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("fleet: stats for %s unavailable: %v", serverID, err)
				}
				return
			}
			results[i].Stats = &stats
		}(i, info.ServerID)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
