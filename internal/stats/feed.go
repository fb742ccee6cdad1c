package stats

import (
	"inboxradar/internal/api/dto"
	"inboxradar/internal/domain"
)

// spamActionType is the synthetic action type given to expanded spam units.
const spamActionType = "SPAM_ACTION"

// IPLookup maps a domain to its resolved IP, returning "" when unknown.
// Satisfied by dnscache.Resolver.
type IPLookup func(domainName string) string

// BuildFeed assembles the typed dashboard feed from stored records: every
// event gets an entity derived from its session, spam actions are expanded
// into unit records (one per counted action, as the classification pipeline
// reports batch counts but the dashboard reasons in single actions), and
// spam-domain rows are annotated with resolver IPs.
func BuildFeed(inboxActions, spamActions []domain.ActionRecord, spamDomains, inboxDomains []domain.DomainRecord, relationships []domain.InboxRelationship, lookup IPLookup) *dto.DashboardFeed {
	feed := &dto.DashboardFeed{
		CombinedActions: make([]dto.ActionEvent, 0, len(inboxActions)+len(spamActions)),
	}

	for _, rec := range inboxActions {
		feed.CombinedActions = append(feed.CombinedActions, dto.ActionEvent{
			Timestamp:     rec.Timestamp,
			Entity:        EntityFromSession(rec.Session),
			Session:       rec.Session,
			Profile:       rec.Profile,
			Category:      "inbox",
			ActionType:    rec.ActionType,
			ArchiveAction: rec.ArchiveAction,
			Count:         unitCount(rec.Count),
		})
	}

	for _, rec := range spamActions {
		if rec.Count <= 0 {
			continue
		}
		unit := dto.ActionEvent{
			Timestamp:  rec.Timestamp,
			Entity:     EntityFromSession(rec.Session),
			Session:    rec.Session,
			Profile:    rec.Profile,
			Category:   "spam",
			ActionType: spamActionType,
			Count:      1,
		}
		for i := 0; i < rec.Count; i++ {
			feed.CombinedActions = append(feed.CombinedActions, unit)
		}
	}

	feed.SpamDomains = buildDomainEvents(spamDomains, lookup)
	feed.InboxDomains = buildDomainEvents(inboxDomains, nil)

	feed.InboxRelationships = make([]dto.RelationshipEvent, 0, len(relationships))
	for _, rec := range relationships {
		feed.InboxRelationships = append(feed.InboxRelationships, dto.RelationshipEvent{
			Timestamp: rec.Timestamp,
			Entity:    EntityFromSession(rec.Session),
			Session:   rec.Session,
			FromName:  rec.FromName,
			Domain:    rec.Domain,
			Count:     unitCount(rec.Count),
		})
	}
	return feed
}

func buildDomainEvents(records []domain.DomainRecord, lookup IPLookup) []dto.DomainEvent {
	events := make([]dto.DomainEvent, 0, len(records))
	for _, rec := range records {
		ip := rec.IP
		if lookup != nil {
			if resolved := lookup(rec.Domain); resolved != "" {
				ip = resolved
			}
		}
		if ip == "" {
			ip = "N/A"
		}
		events = append(events, dto.DomainEvent{
			Timestamp: rec.Timestamp,
			Entity:    EntityFromSession(rec.Session),
			Session:   rec.Session,
			Profile:   rec.Profile,
			Sender:    rec.Sender,
			Domain:    rec.Domain,
			IP:        ip,
			Count:     unitCount(rec.Count),
		})
	}
	return events
}
