package stats

import (
	"fmt"
	"sort"
	"strings"

	"inboxradar/internal/api/dto"
)

// The detailed reports are plain-text renderings of the already-computed
// groupings, kept in the exact section format the operators paste into
// their hand-off notes.

func spamReport(actions, spamActions []dto.ActionEvent, spamDomains []dto.DomainEvent, sessions sessionGroup) string {
	var b strings.Builder
	b.WriteString("**************** DETAILED SPAM ACTIONS REPORT ****************\n\n")

	totalSpamDomains := len(spamDomains)
	if totalSpamDomains == 0 {
		totalSpamDomains = 1
	}

	b.WriteString("> SPAM DOMAIN IN FROM-EMAIL:\n")
	for _, row := range recordFrequency(spamDomains, func(d dto.DomainEvent) string { return d.Domain }) {
		fmt.Fprintf(&b, "%s (%d,   %.2f%%)\n", row.name, row.count, float64(row.count)/float64(totalSpamDomains)*100)
	}

	b.WriteString("\n> SPAM FROM NAME:\n")
	for _, row := range recordFrequency(spamDomains, func(d dto.DomainEvent) string { return d.Sender }) {
		fmt.Fprintf(&b, "%s (%d,   %.2f%%)\n", row.name, row.count, float64(row.count)/float64(totalSpamDomains)*100)
	}

	b.WriteString("\n\n**************** PROFILES IN SESSIONS ****************\n\n")
	fmt.Fprintf(&b, "TOTAL NBR PROFILES: %d  |  TOTAL Spam Actions: %d\n\n", distinctProfiles(actions), len(spamActions))

	for _, id := range sessions.order {
		sessionActions := sessions.byID[id]

		profileSpam := make(map[string]int)
		spamCount := 0
		for _, a := range sessionActions {
			if a.Category == "spam" {
				profileSpam[a.Profile]++
				spamCount++
			} else if _, seen := profileSpam[a.Profile]; !seen {
				profileSpam[a.Profile] = 0
			}
		}

		fmt.Fprintf(&b, "> %s  |  Nbr Profiles: %d  |  Nbr Spam Actions: %d\n", id, len(profileSpam), spamCount)
		for _, profile := range sortedKeys(profileSpam) {
			fmt.Fprintf(&b, "Pr: %s - Spam Action(s): %d\n", profile, profileSpam[profile])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func inboxReport(actions, inboxActions []dto.ActionEvent, inboxDomains []dto.DomainEvent, sessions sessionGroup) string {
	var b strings.Builder
	b.WriteString("**************** DETAILED INBOX ACTIONS REPORT ****************\n\n")

	totalInbox := len(inboxActions)
	if totalInbox == 0 {
		totalInbox = 1
	}

	actionCounts := make(map[string]int)
	var actionOrder []string
	for _, a := range inboxActions {
		if _, seen := actionCounts[a.ActionType]; !seen {
			actionOrder = append(actionOrder, a.ActionType)
		}
		actionCounts[a.ActionType]++
	}

	b.WriteString("OVERALL STATISTICS:\n")
	for _, actionType := range actionOrder {
		fmt.Fprintf(&b, "Total %s Actions: %d (%.1f%%)\n", actionType, actionCounts[actionType],
			float64(actionCounts[actionType])/float64(totalInbox)*100)
	}
	fmt.Fprintf(&b, "Total All Actions: %d\n", len(actions))
	fmt.Fprintf(&b, "Total Profiles: %d\n\n", distinctProfiles(actions))

	b.WriteString("> INBOX DOMAINS:\n")
	for _, row := range recordFrequency(inboxDomains, func(d dto.DomainEvent) string { return d.Domain }) {
		fmt.Fprintf(&b, "%s (%d,   %.2f%%)\n", row.name, row.count, float64(row.count)/float64(totalInbox)*100)
	}

	b.WriteString("\n> INBOX FROM NAMES:\n")
	for _, row := range recordFrequency(inboxDomains, func(d dto.DomainEvent) string { return d.Sender }) {
		fmt.Fprintf(&b, "%s (%d,   %.2f%%)\n", row.name, row.count, float64(row.count)/float64(totalInbox)*100)
	}

	b.WriteString("\n\n**************** INBOX ACTIONS BY SESSION ****************\n\n")
	for _, id := range sessions.order {
		fmt.Fprintf(&b, "> %s\n", id)

		profileActions := make(map[string]map[string]int)
		profileTypeOrder := make(map[string][]string)
		for _, a := range sessions.byID[id] {
			if a.Category != "inbox" {
				continue
			}
			if profileActions[a.Profile] == nil {
				profileActions[a.Profile] = make(map[string]int)
			}
			if _, seen := profileActions[a.Profile][a.ActionType]; !seen {
				profileTypeOrder[a.Profile] = append(profileTypeOrder[a.Profile], a.ActionType)
			}
			profileActions[a.Profile][a.ActionType]++
		}

		for _, profile := range sortedKeys(profileActions) {
			var types []string
			for _, actionType := range profileTypeOrder[profile] {
				types = append(types, fmt.Sprintf("%s:%d", actionType, profileActions[profile][actionType]))
			}
			fmt.Fprintf(&b, "PR:%s - %s\n", profile, strings.Join(types, " | "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

type freqRow struct {
	name  string
	count int
}

// recordFrequency counts occurrences (one per record, ignoring the count
// field; the reports tally report lines, not seed counts) and sorts
// descending.
func recordFrequency(items []dto.DomainEvent, key func(dto.DomainEvent) string) []freqRow {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		k := key(item)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	rows := make([]freqRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, freqRow{name: k, count: counts[k]})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].count > rows[b].count })
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
