// Package dnscache resolves sender domains to IPs through DNS-over-HTTPS
// and memoizes the answers for the dashboard's enrichment pass.
package dnscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	// unresolved marks a domain whose lookup failed so it is not retried
	// until the cache is cleared.
	unresolved = "N/A"

	resolveWorkerLimit = 5
	resolveTimeout     = 8 * time.Second

	dohEndpoint = "https://dns.google/resolve"
)

// LookupFunc resolves one domain to an IPv4 address string.
type LookupFunc func(ctx context.Context, domain string) (string, error)

// Resolver memoizes domain lookups. The zero value is not usable; use New.
type Resolver struct {
	mu     sync.RWMutex
	cache  map[string]string
	lookup LookupFunc
}

// New returns a resolver backed by the Google DoH endpoint. Pass a non-nil
// lookup to override the transport, mainly for tests.
func New(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = dohLookup(&http.Client{Timeout: resolveTimeout})
	}
	return &Resolver{
		cache:  make(map[string]string),
		lookup: lookup,
	}
}

// Get returns the cached IP for a domain, or "" when the domain has never
// been resolved. A cached failure returns the "N/A" sentinel.
func (r *Resolver) Get(domain string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache[domain]
}

// Size reports the number of memoized domains, failures included.
func (r *Resolver) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Clear drops the whole memo, cached failures included, so the next
// ResolveAll retries every domain.
func (r *Resolver) Clear() {
	r.mu.Lock()
	r.cache = make(map[string]string)
	r.mu.Unlock()
}

// ResolveAll resolves every not-yet-cached domain with at most five lookups
// in flight. Individual failures are cached as "N/A" and logged, never
// returned; the only error out of here is context cancellation. Returns the
// number of freshly resolved domains.
func (r *Resolver) ResolveAll(ctx context.Context, domains []string) (int, error) {
	pending := r.missing(domains)
	if len(pending) == 0 {
		return 0, nil
	}

	resolved := 0
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveWorkerLimit)

	for _, domain := range pending {
		domain := domain
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			ip, err := r.lookup(gctx, domain)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				log.Warn("DNS lookup failed", "domain", domain, "error", err)
				ip = unresolved
			}
			if ip == "" {
				ip = unresolved
			}

			mu.Lock()
			r.mu.Lock()
			r.cache[domain] = ip
			r.mu.Unlock()
			if ip != unresolved {
				resolved++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return resolved, err
	}
	return resolved, nil
}

// missing filters the input down to unseen, deduplicated domains.
func (r *Resolver) missing(domains []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(domains))
	var out []string
	for _, domain := range domains {
		if domain == "" {
			continue
		}
		if _, ok := seen[domain]; ok {
			continue
		}
		seen[domain] = struct{}{}
		if _, ok := r.cache[domain]; !ok {
			out = append(out, domain)
		}
	}
	return out
}

type dohAnswer struct {
	Type int    `json:"type"`
	Data string `json:"data"`
}

type dohResponse struct {
	Status int         `json:"Status"`
	Answer []dohAnswer `json:"Answer"`
}

// dohLookup queries the JSON DoH API for the first A record of a domain.
func dohLookup(client *http.Client) LookupFunc {
	return func(ctx context.Context, domain string) (string, error) {
		endpoint := dohEndpoint + "?name=" + url.QueryEscape(domain) + "&type=A"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("Accept", "application/dns-json")

		resp, err := client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return "", fmt.Errorf("doh query returned status %d", resp.StatusCode)
		}

		var parsed dohResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return "", err
		}
		if parsed.Status != 0 {
			return "", fmt.Errorf("doh query returned rcode %d", parsed.Status)
		}

		// Type 1 is an A record; CNAME hops come back in the same list.
		for _, answer := range parsed.Answer {
			if answer.Type == 1 && answer.Data != "" {
				return answer.Data, nil
			}
		}
		return "", errors.New("no A record in answer")
	}
}
