package stats

import (
	"testing"

	"inboxradar/internal/domain"
)

func TestBuildFeedExpandsSpamActions(t *testing.T) {
	spam := []domain.ActionRecord{
		{Category: "spam", Session: "cmh1_morning", Profile: "pr1", ActionType: "move", Count: 3, Timestamp: "2025-01-01 09:15"},
	}
	inbox := []domain.ActionRecord{
		{Category: "inbox", Session: "cmh1_morning", Profile: "pr2", ActionType: "open", Count: 2, Timestamp: "2025-01-01 09:45"},
	}

	feed := BuildFeed(inbox, spam, nil, nil, nil, nil)
	if len(feed.CombinedActions) != 4 {
		t.Fatalf("got %d combined actions, want 4 (1 inbox + 3 spam units)", len(feed.CombinedActions))
	}

	first := feed.CombinedActions[0]
	if first.Category != "inbox" || first.Count != 2 || first.Entity != "ent_cmh1" {
		t.Fatalf("inbox event = %+v, want inbox count 2 for ent_cmh1", first)
	}
	for _, unit := range feed.CombinedActions[1:] {
		if unit.Category != "spam" || unit.Count != 1 || unit.ActionType != "SPAM_ACTION" {
			t.Fatalf("spam unit = %+v, want count 1 with SPAM_ACTION type", unit)
		}
	}
}

func TestBuildFeedAnnotatesIPs(t *testing.T) {
	domains := []domain.DomainRecord{
		{Category: "spam", Session: "cmh1_morning", Sender: "Promo", Domain: "promo.example", Count: 1, Timestamp: "2025-01-01 09:15"},
		{Category: "spam", Session: "cmh1_morning", Sender: "Other", Domain: "other.example", IP: "9.9.9.9", Count: 1, Timestamp: "2025-01-01 09:16"},
	}
	lookup := func(name string) string {
		if name == "promo.example" {
			return "1.2.3.4"
		}
		return ""
	}

	feed := BuildFeed(nil, nil, domains, nil, nil, lookup)
	if feed.SpamDomains[0].IP != "1.2.3.4" {
		t.Fatalf("resolved IP = %q, want %q", feed.SpamDomains[0].IP, "1.2.3.4")
	}
	// An unresolved domain keeps its stored IP, or falls back to N/A.
	if feed.SpamDomains[1].IP != "9.9.9.9" {
		t.Fatalf("stored IP = %q, want %q", feed.SpamDomains[1].IP, "9.9.9.9")
	}

	bare := BuildFeed(nil, nil, []domain.DomainRecord{{Domain: "x.example"}}, nil, nil, nil)
	if bare.SpamDomains[0].IP != "N/A" {
		t.Fatalf("fallback IP = %q, want %q", bare.SpamDomains[0].IP, "N/A")
	}
}
