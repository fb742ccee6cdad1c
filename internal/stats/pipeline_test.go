package stats

import (
	"reflect"
	"strings"
	"testing"

	"inboxradar/internal/api/dto"
)

func sampleFeed() *dto.DashboardFeed {
	return &dto.DashboardFeed{
		CombinedActions: []dto.ActionEvent{
			{Timestamp: "2025-01-01 09:15", Entity: "ent_cmh1", Session: "cmh1_morning", Profile: "pr1", Category: "spam", ActionType: "SPAM_ACTION", Count: 1},
			{Timestamp: "2025-01-01 09:45", Entity: "ent_cmh1", Session: "cmh1_morning", Profile: "pr2", Category: "inbox", ActionType: "open", Count: 1},
			{Timestamp: "2025-01-01 14:05", Entity: "ent_x", Session: "ent_x_alpha", Profile: "pr3", Category: "inbox", ActionType: "reply", ArchiveAction: "archive", Count: 2},
		},
		SpamDomains: []dto.DomainEvent{
			{Timestamp: "2025-01-01 09:15", Entity: "ent_cmh1", Session: "cmh1_morning", Profile: "pr1", Sender: "Promo Desk", Domain: "promo.example", IP: "1.2.3.4", Count: 1},
			{Timestamp: "2025-01-01 09:20", Entity: "ent_cmh1", Session: "cmh1_morning", Profile: "pr1", Sender: "Promo Desk", Domain: "promo.example", IP: "N/A", Count: 1},
		},
		InboxDomains: []dto.DomainEvent{
			{Timestamp: "2025-01-01 09:45", Entity: "ent_cmh1", Session: "cmh1_morning", Profile: "pr2", Sender: "News Daily", Domain: "news.example", Count: 1},
		},
		InboxRelationships: []dto.RelationshipEvent{
			{Timestamp: "2025-01-01 09:45", Entity: "ent_cmh1", Session: "cmh1_morning", FromName: "News Daily", Domain: "news.example", Count: 3},
			{Timestamp: "2025-01-01 14:05", Entity: "ent_x", Session: "ent_x_alpha", FromName: "Updates", Domain: "updates.example", Count: 1},
		},
	}
}

func TestEntityFromSession(t *testing.T) {
	cases := []struct {
		session string
		want    string
	}{
		{"cmh1_morning", "ent_cmh1"},
		{"cmh 12 evening", "ent_cmh12"},
		{"CMH3", "ent_cmh3"},
		{"ent_x_alpha_7", "ent_x"},
		{"ent_solo", "ent_solo"},
		{"ent beta run", "ent_beta"},
		{"acme_batch_2", "acme"},
		{"standalone", "standalone"},
		{"", "Unknown"},
	}
	for _, c := range cases {
		if got := EntityFromSession(c.session); got != c.want {
			t.Errorf("EntityFromSession(%q) returned %q, want %q", c.session, got, c.want)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	if got := FormatPercentage(1, 3); got != "33.3" {
		t.Fatalf("FormatPercentage(1, 3) returned %q, want %q", got, "33.3")
	}
	if got := FormatPercentage(5, 0); got != "0.0" {
		t.Fatalf("FormatPercentage(5, 0) returned %q, want %q", got, "0.0")
	}
}

func TestProcessNilFeed(t *testing.T) {
	if got := Process(nil, nil, nil, "2025-01-01", nil, nil); got != nil {
		t.Fatalf("Process(nil feed) returned %v, want nil", got)
	}
	if got := Process(&dto.DashboardFeed{}, nil, nil, "2025-01-01", nil, nil); got != nil {
		t.Fatalf("Process(feed without actions) returned %v, want nil", got)
	}
	empty := &dto.DashboardFeed{CombinedActions: []dto.ActionEvent{}}
	if got := Process(empty, nil, nil, "2025-01-01", nil, nil); got == nil {
		t.Fatal("Process(empty but present actions) returned nil, want a view")
	}
}

func TestProcessTrend(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	if len(view.TrendData) != 24 {
		t.Fatalf("TrendData has %d buckets, want 24", len(view.TrendData))
	}
	nine := view.TrendData[9]
	if nine.Hour != "09:00" || nine.Spam != 1 || nine.Inbox != 1 {
		t.Fatalf("bucket 09 is %+v, want {09:00 1 1}", nine)
	}
	fourteen := view.TrendData[14]
	if fourteen.Spam != 0 || fourteen.Inbox != 2 {
		t.Fatalf("bucket 14 is %+v, want inbox 2 spam 0", fourteen)
	}
	for i, point := range view.TrendData {
		if i == 9 || i == 14 {
			continue
		}
		if point.Spam != 0 || point.Inbox != 0 {
			t.Fatalf("bucket %d is %+v, want zeroes", i, point)
		}
	}
}

func TestProcessTrendIgnoresHourFilter(t *testing.T) {
	view := Process(sampleFeed(), nil, []string{"09"}, "2025-01-01", nil, nil)
	if view.TrendData[14].Inbox != 2 {
		t.Fatalf("hour-filtered view lost bucket 14: %+v", view.TrendData[14])
	}
	// The headline stats themselves do honor the filter.
	if view.Stats.InboxActions != 1 {
		t.Fatalf("InboxActions = %d, want 1 (only the 09:45 record)", view.Stats.InboxActions)
	}
}

func TestProcessHourFilterDisabledWhenFull(t *testing.T) {
	hours := make([]string, 24)
	for i := range hours {
		hours[i] = hourLabel(i)[:2]
	}
	full := Process(sampleFeed(), nil, hours, "2025-01-01", nil, nil)
	none := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	if full.Stats != none.Stats {
		t.Fatalf("full hour selection changed stats: %+v vs %+v", full.Stats, none.Stats)
	}
}

func TestProcessEntityFilter(t *testing.T) {
	view := Process(sampleFeed(), []string{"ent_x"}, nil, "2025-01-01", nil, nil)
	if view.Stats.SpamActions != 0 || view.Stats.InboxActions != 1 {
		t.Fatalf("filtered stats = %+v, want spam 0 inbox 1", view.Stats)
	}
	if len(view.SessionStats.Sessions) != 1 || view.SessionStats.Sessions[0].ID != "ent_x_alpha" {
		t.Fatalf("filtered sessions = %+v, want only ent_x_alpha", view.SessionStats.Sessions)
	}
	if view.DisplayEntity != "X" {
		t.Fatalf("DisplayEntity = %q, want %q", view.DisplayEntity, "X")
	}
}

func TestProcessDateFilter(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-02", nil, nil)
	if view.Stats.SpamActions != 0 || view.Stats.InboxActions != 0 {
		t.Fatalf("off-date stats = %+v, want all zero", view.Stats)
	}
	if view.DisplayDate != "02/01/2025" {
		t.Fatalf("DisplayDate = %q, want %q", view.DisplayDate, "02/01/2025")
	}
}

func TestProcessHeadlineStats(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	want := dto.HeadlineStats{
		TotalProfiles:  3,
		ActiveSessions: 2,
		SpamActions:    1,
		InboxActions:   2,
		SpamForms:      1,
		InboxForms:     1,
		SpamDomains:    1,
		InboxDomains:   1,
	}
	if view.Stats != want {
		t.Fatalf("Stats = %+v, want %+v", view.Stats, want)
	}
	if view.SpamStats.Min != 1 || view.SpamStats.Max != 1 || view.SpamStats.Avg != "1.00" {
		t.Fatalf("SpamStats = %+v, want min 1 max 1 avg 1.00", view.SpamStats)
	}
}

func TestProcessSessionRollups(t *testing.T) {
	entities := []dto.EntityRef{{ID: "ent_cmh1", Name: "Command House"}}
	view := Process(sampleFeed(), nil, nil, "2025-01-01", entities, nil)
	sessions := view.SessionStats.Sessions
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	first := sessions[0]
	if first.ID != "cmh1_morning" || first.Spam != 1 || first.Inbox != 1 || first.Total != 2 {
		t.Fatalf("first session = %+v, want cmh1_morning 1/1/2", first)
	}
	if first.Entity != "Command House" {
		t.Fatalf("session entity = %q, want resolved name", first.Entity)
	}
	if !reflect.DeepEqual(first.Profiles, []string{"pr1", "pr2"}) {
		t.Fatalf("session profiles = %v, want [pr1 pr2]", first.Profiles)
	}
	if first.SpamPct != 50 {
		t.Fatalf("SpamPct = %v, want 50", first.SpamPct)
	}
}

func TestProcessSpamRelationships(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	if len(view.SpamRelationships) != 1 {
		t.Fatalf("got %d spam relationships, want 1", len(view.SpamRelationships))
	}
	row := view.SpamRelationships[0]
	if row.FromName != "Promo Desk" || row.Domain != "promo.example" || row.Count != 2 {
		t.Fatalf("relationship = %+v, want Promo Desk/promo.example count 2", row)
	}
	// The resolved IP survives a later N/A record for the same pair.
	if row.IP != "1.2.3.4" {
		t.Fatalf("relationship IP = %q, want %q", row.IP, "1.2.3.4")
	}
	// Percentage is against the feed record count, not the count sum.
	if row.Percentage != "100.0" {
		t.Fatalf("relationship percentage = %q, want %q", row.Percentage, "100.0")
	}
}

func TestProcessInboxRelationships(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	if len(view.InboxRelationships) != 2 {
		t.Fatalf("got %d inbox relationships, want 2", len(view.InboxRelationships))
	}
	top := view.InboxRelationships[0]
	if top.FromName != "News Daily" || top.Count != 3 || top.Percentage != "75.0" {
		t.Fatalf("top inbox relationship = %+v, want News Daily count 3 at 75.0", top)
	}
}

func TestProcessActionTypesDuplicateArchive(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	counts := make(map[string]int)
	for _, row := range view.InboxActionTypes {
		counts[row.Name] = row.Count
	}
	if counts["reply"] != 2 || counts["archive"] != 2 || counts["open"] != 1 {
		t.Fatalf("action types = %v, want reply 2, archive 2, open 1", counts)
	}
}

func TestProcessIdempotent(t *testing.T) {
	first := Process(sampleFeed(), []string{"ent_cmh1"}, []string{"09"}, "2025-01-01", nil, nil)
	second := Process(sampleFeed(), []string{"ent_cmh1"}, []string{"09"}, "2025-01-01", nil, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Process is not idempotent for identical inputs")
	}
}

func TestInsights(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	if len(view.Insights) != 3 {
		t.Fatalf("got %d insights, want 3", len(view.Insights))
	}
	if view.Insights[0].Icon != "trend-up" || view.Insights[0].TrendType != "positive" {
		t.Fatalf("first insight = %+v, want trend-up/positive", view.Insights[0])
	}
	if !strings.Contains(view.Insights[0].Text, "X") {
		t.Fatalf("top entity insight %q does not name the best entity", view.Insights[0].Text)
	}
	if view.Insights[1].Icon != "clock" || !strings.Contains(view.Insights[1].Text, "09:00") {
		t.Fatalf("peak hour insight = %+v, want clock at 09:00", view.Insights[1])
	}
	if view.Insights[2].Icon != "globe" || !strings.Contains(view.Insights[2].Text, "1 unique spam domains") {
		t.Fatalf("coverage insight = %+v, want 1 unique spam domain", view.Insights[2])
	}
}

func TestAlerts(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	var spike, forms bool
	for _, alert := range view.Alerts {
		switch alert.Title {
		case "Spam Spike Detected":
			spike = true
			if !strings.Contains(alert.Message, "CMH1") {
				t.Fatalf("spike alert %q does not name the entity", alert.Message)
			}
		case "Excessive Spam Forms":
			forms = true
		}
	}
	// cmh1 is 1 spam out of 2 actions (50% > 15%) with 1 spam sender out
	// of 2 total (exactly 50%, not above the threshold).
	if !spike {
		t.Fatal("expected a Spam Spike Detected alert for ent_cmh1")
	}
	if forms {
		t.Fatal("unexpected Excessive Spam Forms alert at exactly 50%")
	}
}

func TestDetailedLogs(t *testing.T) {
	view := Process(sampleFeed(), nil, nil, "2025-01-01", nil, nil)
	if !strings.Contains(view.DetailedLogs.Spam, "DETAILED SPAM ACTIONS REPORT") {
		t.Fatal("spam report missing its header")
	}
	if !strings.Contains(view.DetailedLogs.Spam, "promo.example") {
		t.Fatal("spam report missing the spam domain")
	}
	if !strings.Contains(view.DetailedLogs.Inbox, "INBOX ACTIONS BY SESSION") {
		t.Fatal("inbox report missing its session section")
	}
	if !strings.Contains(view.DetailedLogs.Inbox, "news.example") {
		t.Fatal("inbox report missing the inbox domain")
	}
}
