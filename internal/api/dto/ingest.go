package dto

// IngestAction is one reported mailbox action as the reporting scripts send
// it. Category decides which side of the dashboard it lands on.
type IngestAction struct {
	Category      string `json:"category"` // spam | inbox
	Session       string `json:"session"`
	Profile       string `json:"profile"`
	ActionType    string `json:"actionType"`
	ArchiveAction string `json:"archiveAction,omitempty"`
	Count         int    `json:"count"`
	Timestamp     string `json:"timestamp"`
}

// IngestDomain is one sender/domain observation.
type IngestDomain struct {
	Category  string `json:"category"`
	Session   string `json:"session"`
	Profile   string `json:"profile"`
	Sender    string `json:"sender"`
	Domain    string `json:"domain"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

// IngestRelationship is a pre-aggregated inbox from-name/domain pair.
type IngestRelationship struct {
	Session   string `json:"session"`
	FromName  string `json:"fromName"`
	Domain    string `json:"domain"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

// IngestBatch is the unit the reporting scripts POST and the unit the queue
// moves. Batches are applied atomically for actions.
type IngestBatch struct {
	Actions       []IngestAction       `json:"actions"`
	Domains       []IngestDomain       `json:"domains"`
	Relationships []IngestRelationship `json:"relationships"`
}

// Size is the total record count across all three sections.
func (b *IngestBatch) Size() int {
	return len(b.Actions) + len(b.Domains) + len(b.Relationships)
}
