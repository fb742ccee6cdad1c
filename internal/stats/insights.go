package stats

import (
	"fmt"

	"inboxradar/internal/api/dto"
)

const (
	spamRatioThreshold = 0.15
	spamFormsThreshold = 0.5
)

// insights synthesizes the headline observations: the best-performing
// entity by inbox rate, the peak spam hour when one exists, and the spam
// domain coverage line. Best-effort heuristics, not exact statistics.
func (p *pipeline) insights(actions []dto.ActionEvent, spamDomains []dto.DomainEvent, trend []dto.TrendPoint) []dto.Insight {
	var insights []dto.Insight

	if top, ok := topInboxEntity(actions); ok {
		insights = append(insights, dto.Insight{
			Icon:      "trend-up",
			Text:      fmt.Sprintf("Entity %s is performing best with a %.1f%% Inbox rate.", p.namer.name(top.entity), top.rate),
			Trend:     "Optimal Performance",
			TrendType: "positive",
		})
	}

	if peak := peakSpamHour(trend); peak.Spam > 0 {
		insights = append(insights, dto.Insight{
			Icon:      "clock",
			Text:      fmt.Sprintf("Peak spam activity detected at %s with %d actions.", peak.Hour, peak.Spam),
			Trend:     "High Activity",
			TrendType: "negative",
		})
	}

	insights = append(insights, dto.Insight{
		Icon:      "globe",
		Text:      fmt.Sprintf("Currently monitoring %d unique spam domains across all active entities.", distinctDomains(spamDomains)),
		Trend:     "Broad Coverage",
		TrendType: "positive",
	})
	return insights
}

type entityRate struct {
	entity string
	rate   float64
}

func topInboxEntity(actions []dto.ActionEvent) (entityRate, bool) {
	totals := make(map[string]int)
	inbox := make(map[string]int)
	var order []string

	for _, a := range actions {
		if _, seen := totals[a.Entity]; !seen {
			order = append(order, a.Entity)
		}
		totals[a.Entity]++
		if a.Category == "inbox" {
			inbox[a.Entity]++
		}
	}
	if len(order) == 0 {
		return entityRate{}, false
	}

	best := entityRate{entity: order[0], rate: -1}
	for _, e := range order {
		total := totals[e]
		if total == 0 {
			total = 1
		}
		rate := float64(inbox[e]) / float64(total) * 100
		if rate > best.rate {
			best = entityRate{entity: e, rate: rate}
		}
	}
	return best, true
}

func peakSpamHour(trend []dto.TrendPoint) dto.TrendPoint {
	var peak dto.TrendPoint
	for _, point := range trend {
		if point.Spam > peak.Spam {
			peak = point
		}
	}
	return peak
}

// alerts runs the per-entity threshold checks over the filtered data: a
// spam-to-total ratio above 15%, and spam senders making up more than half
// of an entity's distinct sender pool. Both raise independent danger
// banners.
func (p *pipeline) alerts(actions []dto.ActionEvent, spamDomains, inboxDomains []dto.DomainEvent) []dto.Alert {
	var alerts []dto.Alert

	totals := make(map[string]int)
	spam := make(map[string]int)
	var order []string
	for _, a := range actions {
		if _, seen := totals[a.Entity]; !seen {
			order = append(order, a.Entity)
		}
		totals[a.Entity]++
		if a.Category == "spam" {
			spam[a.Entity]++
		}
	}

	for _, e := range order {
		total := totals[e]
		if total == 0 {
			total = 1
		}
		if float64(spam[e])/float64(total) > spamRatioThreshold {
			alerts = append(alerts, dto.Alert{
				Type:    "danger",
				Title:   "Spam Spike Detected",
				Message: fmt.Sprintf("Entity %s has exceeded the 15%% spam threshold.", p.namer.name(e)),
			})
		}

		spamForms := distinctEntitySenders(spamDomains, e)
		inboxForms := distinctEntitySenders(inboxDomains, e)
		totalForms := spamForms + inboxForms
		if totalForms > 0 && float64(spamForms)/float64(totalForms) > spamFormsThreshold {
			alerts = append(alerts, dto.Alert{
				Type:  "danger",
				Title: "Excessive Spam Forms",
				Message: fmt.Sprintf("Too much spam in entity %s: %d spam forms out of %d total (%.1f%%).",
					p.namer.name(e), spamForms, totalForms, float64(spamForms)/float64(totalForms)*100),
			})
		}
	}
	return alerts
}

func distinctEntitySenders(items []dto.DomainEvent, entity string) int {
	set := make(map[string]struct{})
	for _, item := range items {
		if item.Entity == entity || (item.Session != "" && firstToken(item.Session, "_") == entity) {
			set[item.Sender] = struct{}{}
		}
	}
	return len(set)
}
