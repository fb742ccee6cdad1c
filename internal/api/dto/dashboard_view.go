package dto

// FrequencyRow is one line of a name/count table with its share of the
// table total, formatted to one decimal.
type FrequencyRow struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// RelationshipRow links a from-name to a domain. IP is only populated on
// the spam side.
type RelationshipRow struct {
	FromName   string `json:"fromName"`
	Domain     string `json:"domain"`
	IP         string `json:"ip,omitempty"`
	Country    string `json:"country,omitempty"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// TrendPoint is one of the 24 hourly buckets of the day trend.
type TrendPoint struct {
	Hour  string `json:"hour"`
	Spam  int    `json:"spam"`
	Inbox int    `json:"inbox"`
}

// SessionRollup aggregates the filtered actions of one session.
type SessionRollup struct {
	ID       string   `json:"id"`
	Inbox    int      `json:"inbox"`
	Spam     int      `json:"spam"`
	Total    int      `json:"total"`
	Entity   string   `json:"entity"`
	Profiles []string `json:"profiles"`
	SpamPct  float64  `json:"spamPct"`
}

// Insight is one synthesized headline. Icon is a symbolic tag
// (trend-up, clock, globe) for the UI to map.
type Insight struct {
	Icon      string `json:"icon"`
	Text      string `json:"text"`
	Trend     string `json:"trend"`
	TrendType string `json:"trendType"` // positive | negative
}

// Alert is an advisory banner raised by threshold checks.
type Alert struct {
	Type    string `json:"type"` // danger
	Title   string `json:"title"`
	Message string `json:"message"`
}

// HeadlineStats is the top metric block of the dashboard.
type HeadlineStats struct {
	TotalProfiles  int `json:"totalProfiles"`
	ActiveSessions int `json:"activeSessions"`
	SpamActions    int `json:"spamActions"`
	InboxActions   int `json:"inboxActions"`
	SpamForms      int `json:"spamForms"`
	InboxForms     int `json:"inboxForms"`
	SpamDomains    int `json:"spamDomains"`
	InboxDomains   int `json:"inboxDomains"`
}

// SpamSpread is the min/max/avg of per-profile spam counts.
type SpamSpread struct {
	Min int    `json:"min"`
	Max int    `json:"max"`
	Avg string `json:"avg"`
}

// SessionStats bundles the per-session roll-ups with their summary block.
type SessionStats struct {
	Sessions []SessionRollup `json:"sessions"`
	Stats    struct {
		TotalProfiles int    `json:"totalProfiles"`
		MinSpam       int    `json:"minSpam"`
		MaxSpam       int    `json:"maxSpam"`
		AvgSpam       string `json:"avgSpam"`
	} `json:"stats"`
}

// DetailedLogs carries the two plain-text reports rendered from the same
// aggregates.
type DetailedLogs struct {
	Spam  string `json:"spam"`
	Inbox string `json:"inbox"`
}

// DashboardView is the derived view-model: everything the dashboard
// renders, recomputed in full from the feed and the filters.
type DashboardView struct {
	Stats     HeadlineStats `json:"stats"`
	SpamStats SpamSpread    `json:"spamStats"`

	SessionStats SessionStats `json:"sessionStats"`

	SpamForms        []FrequencyRow `json:"spamForms"`
	InboxForms       []FrequencyRow `json:"inboxForms"`
	SpamDomainsData  []FrequencyRow `json:"spamDomainsData"`
	InboxDomainsData []FrequencyRow `json:"inboxDomainsData"`
	InboxActionTypes []FrequencyRow `json:"inboxActionTypes"`

	SpamRelationships  []RelationshipRow `json:"spamRelationships"`
	InboxRelationships []RelationshipRow `json:"inboxRelationships"`

	TrendData []TrendPoint `json:"trendData"`
	Insights  []Insight    `json:"insights"`
	Alerts    []Alert      `json:"alerts"`

	DisplayEntity string `json:"displayEntity"`
	DisplayHour   string `json:"displayHour"`
	DisplayDate   string `json:"displayDate"`

	DetailedLogs DetailedLogs `json:"detailedLogs"`
}
