package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"inboxradar/internal/config"
	"inboxradar/internal/database"
	"inboxradar/internal/dnscache"
	"inboxradar/internal/support"
)

// SharedResolver is the process-wide DNS memo. The dashboard reads from it
// and the refresh routine fills it.
var SharedResolver = dnscache.New(nil)

// StartDNSRefreshRoutine resolves spam domains on the configured interval.
// Leadership-gated so only one instance hits the resolver per cluster.
func StartDNSRefreshRoutine(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	err := support.RunWithLeader(ctx, support.LeaderKey("dns_refresh"), support.DefaultLeadershipTTL, func(leaderCtx context.Context) {
		updates := config.DNSRefreshIntervalUpdates()
		interval := <-updates

		RunDNSRefresh(leaderCtx, "startup")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-leaderCtx.Done():
				return
			case interval = <-updates:
				ticker.Reset(interval)
			case <-ticker.C:
				RunDNSRefresh(leaderCtx, "timer")
			}
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("DNS refresh routine stopped", "error", err)
	}
}

// RunDNSRefresh resolves every unresolved spam domain and writes the IPs
// back onto the stored records.
func RunDNSRefresh(ctx context.Context, source string) {
	if database.DB == nil {
		log.Warn("DNS refresh skipped: database not initialized")
		return
	}

	start := time.Now()

	domains, err := database.GetDistinctDomains("spam")
	if err != nil {
		log.Error("DNS refresh: failed to list domains", "error", err)
		return
	}
	if len(domains) == 0 {
		return
	}

	resolved, err := SharedResolver.ResolveAll(ctx, domains)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("DNS refresh canceled", "duration", time.Since(start))
			return
		}
		log.Error("DNS refresh failed", "error", err)
		return
	}

	ips := make(map[string]string, len(domains))
	for _, d := range domains {
		if ip := SharedResolver.Get(d); ip != "" && ip != "N/A" {
			ips[d] = ip
		}
	}
	if err := database.UpdateDomainIPs(ips); err != nil {
		log.Error("DNS refresh: failed to persist IPs", "error", err)
		return
	}

	log.Info("DNS refresh completed", "source", source, "domains", len(domains), "resolved", resolved, "duration", time.Since(start))
}
