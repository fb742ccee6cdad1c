package dto

// ActionEvent is one normalized action record of the dashboard feed.
// Entity is derived from the session name at feed-build time; spam actions
// arrive pre-expanded to unit counts.
type ActionEvent struct {
	Timestamp     string `json:"timestamp"`
	Entity        string `json:"entity"`
	Session       string `json:"session"`
	Profile       string `json:"profile"`
	Category      string `json:"category"` // spam | inbox
	ActionType    string `json:"action_type"`
	ArchiveAction string `json:"archive_action,omitempty"`
	Count         int    `json:"count"`
}

// DomainEvent is one sender/domain observation. IP holds the resolver
// annotation and stays "N/A" while unresolved.
type DomainEvent struct {
	Timestamp string `json:"timestamp"`
	Entity    string `json:"entity"`
	Session   string `json:"session"`
	Profile   string `json:"profile"`
	Sender    string `json:"sender"`
	Domain    string `json:"domain"`
	IP        string `json:"ip,omitempty"`
	Count     int    `json:"count"`
}

// RelationshipEvent is a pre-aggregated inbox from-name/domain pair.
type RelationshipEvent struct {
	Timestamp string `json:"timestamp"`
	Entity    string `json:"entity"`
	Session   string `json:"session"`
	FromName  string `json:"from_name"`
	Domain    string `json:"domain"`
	Count     int    `json:"count"`
}

// DashboardFeed is the raw input of the aggregation pipeline: typed,
// timestamp-normalized records, one slice per source table.
type DashboardFeed struct {
	CombinedActions    []ActionEvent       `json:"combined_actions"`
	SpamDomains        []DomainEvent       `json:"spam_domains"`
	InboxDomains       []DomainEvent       `json:"inbox_domains"`
	InboxRelationships []RelationshipEvent `json:"inbox_relationships"`
}

// EntityRef is the minimal entity shape the pipeline needs for display
// names.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
