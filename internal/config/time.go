package config

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultIngestInterval     = 5 * time.Second
	defaultDNSRefreshInterval = 6 * time.Hour
)

var (
	ingestInterval      atomic.Value
	dnsRefreshInterval  atomic.Value
	ingestListeners     []chan time.Duration
	dnsRefreshListeners []chan time.Duration
	listenersMu         sync.Mutex
)

func init() {
	ingestInterval.Store(defaultIngestInterval)
	dnsRefreshInterval.Store(defaultDNSRefreshInterval)
}

func SetBetweenTime() {
	cfg := GetConfig()
	setIngestInterval(CalculateBetweenTime(cfg.Ingest.IngestTimer))
	setDNSRefreshInterval(calculateDNSRefreshInterval(cfg))
}

// CalculateBetweenTime converts a Timer into a duration with a one second
// floor.
func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := CalculateMillisecondsOfPeriod(timer)

	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func CalculateMillisecondsOfPeriod(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}

func GetIngestInterval() time.Duration {
	return ingestInterval.Load().(time.Duration)
}

// IngestIntervalUpdates returns a channel that carries the current interval
// immediately and every later change. Slow readers miss intermediate values
// instead of blocking the config writer.
func IngestIntervalUpdates() <-chan time.Duration {
	ch := make(chan time.Duration, 1)
	listenersMu.Lock()
	ingestListeners = append(ingestListeners, ch)
	listenersMu.Unlock()

	ch <- GetIngestInterval()
	return ch
}

func setIngestInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultIngestInterval
	}

	if GetIngestInterval() == interval {
		return
	}

	ingestInterval.Store(interval)

	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, ch := range ingestListeners {
		select {
		case ch <- interval:
		default:
		}
	}
}

func GetDNSRefreshInterval() time.Duration {
	return dnsRefreshInterval.Load().(time.Duration)
}

func DNSRefreshIntervalUpdates() <-chan time.Duration {
	ch := make(chan time.Duration, 1)
	listenersMu.Lock()
	dnsRefreshListeners = append(dnsRefreshListeners, ch)
	listenersMu.Unlock()

	ch <- GetDNSRefreshInterval()
	return ch
}

func setDNSRefreshInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultDNSRefreshInterval
	}

	if GetDNSRefreshInterval() == interval {
		return
	}

	dnsRefreshInterval.Store(interval)

	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, ch := range dnsRefreshListeners {
		select {
		case ch <- interval:
		default:
		}
	}
}

func calculateDNSRefreshInterval(cfg Config) time.Duration {
	if !cfg.DNS.AutoRefresh {
		return defaultDNSRefreshInterval
	}
	interval := CalculateMillisecondsOfPeriod(cfg.DNS.RefreshTimer)
	if interval == 0 {
		return defaultDNSRefreshInterval
	}
	return time.Duration(interval) * time.Millisecond
}
