package config

import (
	"testing"
	"time"
)

func TestCalculateMillisecondsOfPeriod(t *testing.T) {
	timer := Timer{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}
	want := uint64((24*60*60 + 2*60*60 + 3*60 + 4) * 1000)

	if got := CalculateMillisecondsOfPeriod(timer); got != want {
		t.Fatalf("CalculateMillisecondsOfPeriod returned %d, want %d", got, want)
	}
}

func TestCalculateBetweenTime(t *testing.T) {
	t.Run("enforces minimum interval", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{}); got != time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1s", got)
		}
	})

	t.Run("returns configured duration", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{Minutes: 1, Seconds: 30}); got != 90*time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1m30s", got)
		}
	})
}

func TestSetBetweenTime(t *testing.T) {
	origCfg := GetConfig()
	origIngest := GetIngestInterval()
	origDNS := GetDNSRefreshInterval()
	origIngestListeners := ingestListeners
	origDNSListeners := dnsRefreshListeners

	t.Cleanup(func() {
		configValue.Store(origCfg)
		ingestInterval.Store(origIngest)
		dnsRefreshInterval.Store(origDNS)
		ingestListeners = origIngestListeners
		dnsRefreshListeners = origDNSListeners
	})

	testCfg := Config{}
	testCfg.Ingest.IngestTimer = Timer{Seconds: 10}
	testCfg.DNS.AutoRefresh = true
	testCfg.DNS.RefreshTimer = Timer{Hours: 2}

	configValue.Store(testCfg)
	ingestListeners = nil
	dnsRefreshListeners = nil

	SetBetweenTime()

	if got := GetIngestInterval(); got != 10*time.Second {
		t.Fatalf("GetIngestInterval returned %s, want 10s", got)
	}
	if got := GetDNSRefreshInterval(); got != 2*time.Hour {
		t.Fatalf("GetDNSRefreshInterval returned %s, want 2h", got)
	}
}

func TestIngestIntervalUpdates(t *testing.T) {
	origIngest := GetIngestInterval()
	origListeners := ingestListeners

	t.Cleanup(func() {
		ingestInterval.Store(origIngest)
		ingestListeners = origListeners
	})

	ingestInterval.Store(time.Second)
	ingestListeners = nil

	ch := IngestIntervalUpdates()
	first := <-ch
	if first != time.Second {
		t.Fatalf("initial update = %s, want 1s", first)
	}

	setIngestInterval(5 * time.Second)

	select {
	case next := <-ch:
		if next != 5*time.Second {
			t.Fatalf("next update = %s, want 5s", next)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for interval update")
	}

	// Verify no duplicate notification when same interval is set.
	setIngestInterval(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("unexpected update when interval unchanged")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDNSRefreshIntervalUpdates(t *testing.T) {
	origDNS := GetDNSRefreshInterval()
	origListeners := dnsRefreshListeners

	t.Cleanup(func() {
		dnsRefreshInterval.Store(origDNS)
		dnsRefreshListeners = origListeners
	})

	dnsRefreshInterval.Store(time.Hour)
	dnsRefreshListeners = nil

	ch := DNSRefreshIntervalUpdates()
	first := <-ch
	if first != time.Hour {
		t.Fatalf("initial update = %s, want 1h", first)
	}

	setDNSRefreshInterval(3 * time.Hour)

	select {
	case next := <-ch:
		if next != 3*time.Hour {
			t.Fatalf("next update = %s, want 3h", next)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for interval update")
	}
}
