package stats

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"inboxradar/internal/api/dto"
	"inboxradar/internal/support"
)

// Process recomputes the full dashboard view-model from the feed and the
// current filters. selectedEntities empty means all entities; selectedHours
// empty (or covering all 24 hours) disables the hour filter; selectedDate
// empty defaults to today. sessionEntity may be nil, in which case the
// standard EntityFromSession heuristic applies. Returns nil when the feed
// or its combined actions are structurally absent; callers must treat that
// as "cannot render", distinct from an empty but valid feed.
func Process(raw *dto.DashboardFeed, selectedEntities, selectedHours []string, selectedDate string, entities []dto.EntityRef, sessionEntity func(string) string) *dto.DashboardView {
	if raw == nil || raw.CombinedActions == nil {
		return nil
	}
	if sessionEntity == nil {
		sessionEntity = EntityFromSession
	}

	targetDate := selectedDate
	if targetDate == "" {
		targetDate = time.Now().Format("2006-01-02")
	}

	p := pipeline{
		namer:         newEntityNamer(entities),
		sessionEntity: sessionEntity,
		entityFilter:  toSet(selectedEntities),
		hourFilter:    toSet(selectedHours),
		targetDate:    targetDate,
	}
	if len(selectedHours) == 0 || len(p.hourFilter) >= 24 {
		p.hourFilter = nil
	}

	dailyActions := p.filterActions(raw.CombinedActions, false)
	actions := p.filterActions(raw.CombinedActions, true)
	spamDomains := p.filterDomains(raw.SpamDomains)
	inboxDomains := p.filterDomains(raw.InboxDomains)
	inboxRelationships := p.filterRelationships(raw.InboxRelationships)

	var spamActions, inboxActions []dto.ActionEvent
	for _, a := range actions {
		if a.Category == "spam" {
			spamActions = append(spamActions, a)
		} else {
			inboxActions = append(inboxActions, a)
		}
	}

	view := &dto.DashboardView{
		SpamForms:          aggregateSenders(spamDomains),
		InboxForms:         aggregateSenders(inboxDomains),
		SpamDomainsData:    aggregateDomains(spamDomains),
		InboxDomainsData:   aggregateDomains(inboxDomains),
		InboxActionTypes:   aggregateActionTypes(inboxActions),
		SpamRelationships:  buildSpamRelationships(spamDomains),
		InboxRelationships: buildInboxRelationships(inboxRelationships),
		TrendData:          buildTrend(dailyActions),
	}

	sessions := groupBySession(actions)

	view.Stats = dto.HeadlineStats{
		TotalProfiles:  distinctProfiles(actions),
		ActiveSessions: len(sessions.order),
		SpamActions:    len(spamActions),
		InboxActions:   len(inboxActions),
		SpamForms:      distinctSenders(spamDomains),
		InboxForms:     distinctSenders(inboxDomains),
		SpamDomains:    distinctDomains(spamDomains),
		InboxDomains:   distinctDomains(inboxDomains),
	}
	view.SpamStats = spamSpread(spamActions)
	view.SessionStats = p.sessionStats(sessions, actions, view.SpamStats)

	view.Insights = p.insights(actions, spamDomains, view.TrendData)
	view.Alerts = p.alerts(actions, spamDomains, inboxDomains)

	view.DisplayEntity = p.displayEntity(selectedEntities)
	view.DisplayHour = displayHour(selectedHours)
	view.DisplayDate = reverseDate(targetDate)

	view.DetailedLogs = dto.DetailedLogs{
		Spam:  spamReport(actions, spamActions, spamDomains, sessions),
		Inbox: inboxReport(actions, inboxActions, inboxDomains, sessions),
	}
	return view
}

type pipeline struct {
	namer         entityNamer
	sessionEntity func(string) string
	entityFilter  map[string]struct{}
	hourFilter    map[string]struct{}
	targetDate    string
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (p *pipeline) keepEntity(entity, session string) bool {
	if p.entityFilter == nil {
		return true
	}
	if entity != "" {
		_, ok := p.entityFilter[entity]
		return ok
	}
	if session != "" {
		_, ok := p.entityFilter[p.sessionEntity(session)]
		return ok
	}
	return true
}

func (p *pipeline) keepDate(ts string) bool {
	if ts == "" {
		return true
	}
	return support.TimestampDate(ts) == p.targetDate
}

func (p *pipeline) keepHour(ts string) bool {
	if p.hourFilter == nil || ts == "" {
		return true
	}
	hour := support.TimestampHour(ts)
	if hour == "" {
		return true
	}
	_, ok := p.hourFilter[hour]
	return ok
}

func (p *pipeline) filterActions(items []dto.ActionEvent, byHour bool) []dto.ActionEvent {
	var out []dto.ActionEvent
	for _, item := range items {
		if !p.keepEntity(item.Entity, item.Session) || !p.keepDate(item.Timestamp) {
			continue
		}
		if byHour && !p.keepHour(item.Timestamp) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (p *pipeline) filterDomains(items []dto.DomainEvent) []dto.DomainEvent {
	var out []dto.DomainEvent
	for _, item := range items {
		if p.keepEntity(item.Entity, item.Session) && p.keepDate(item.Timestamp) && p.keepHour(item.Timestamp) {
			out = append(out, item)
		}
	}
	return out
}

func (p *pipeline) filterRelationships(items []dto.RelationshipEvent) []dto.RelationshipEvent {
	var out []dto.RelationshipEvent
	for _, item := range items {
		if p.keepEntity(item.Entity, item.Session) && p.keepDate(item.Timestamp) && p.keepHour(item.Timestamp) {
			out = append(out, item)
		}
	}
	return out
}

// counter accumulates name -> count keeping first-seen key order so that
// equal counts render in a stable, insertion-based order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, amount int) {
	if key == "" {
		key = "Unknown"
	}
	if amount <= 0 {
		amount = 1
	}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key] += amount
}

func (c *counter) total() int {
	total := 0
	for _, v := range c.counts {
		total += v
	}
	return total
}

// rows renders the counter as a frequency table sorted by count descending,
// with percentages against the counter total.
func (c *counter) rows() []dto.FrequencyRow {
	total := c.total()
	rows := make([]dto.FrequencyRow, 0, len(c.order))
	for _, name := range c.order {
		rows = append(rows, dto.FrequencyRow{
			Name:       name,
			Count:      c.counts[name],
			Percentage: FormatPercentage(c.counts[name], total),
		})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Count > rows[b].Count })
	return rows
}

func aggregateSenders(items []dto.DomainEvent) []dto.FrequencyRow {
	c := newCounter()
	for _, item := range items {
		c.add(item.Sender, item.Count)
	}
	return c.rows()
}

func aggregateDomains(items []dto.DomainEvent) []dto.FrequencyRow {
	c := newCounter()
	for _, item := range items {
		c.add(item.Domain, item.Count)
	}
	return c.rows()
}

// aggregateActionTypes counts action types and duplicates the amount under
// the archive action when one is present and distinct, matching how the
// pipelines double-report archived actions.
func aggregateActionTypes(items []dto.ActionEvent) []dto.FrequencyRow {
	c := newCounter()
	for _, item := range items {
		actionType := item.ActionType
		if actionType == "" {
			actionType = "Unknown"
		}
		c.add(actionType, item.Count)
		if item.ArchiveAction != "" && item.ArchiveAction != actionType {
			c.add(item.ArchiveAction, item.Count)
		}
	}
	return c.rows()
}

func buildSpamRelationships(spamDomains []dto.DomainEvent) []dto.RelationshipRow {
	type pairData struct {
		count int
		ip    string
	}
	pairs := make(map[[2]string]*pairData)
	var order [][2]string

	for _, item := range spamDomains {
		fromName := item.Sender
		if fromName == "" {
			fromName = "Unknown"
		}
		domainName := item.Domain
		if domainName == "" {
			domainName = "Unknown"
		}
		ip := item.IP
		if ip == "" {
			ip = "N/A"
		}
		amount := item.Count
		if amount <= 0 {
			amount = 1
		}

		key := [2]string{fromName, domainName}
		data, ok := pairs[key]
		if !ok {
			data = &pairData{ip: ip}
			pairs[key] = data
			order = append(order, key)
		}
		data.count += amount
		if ip != "N/A" {
			data.ip = ip
		}
	}

	// Percentages run against the record count of the spam-domain feed,
	// not the pair-level count sum.
	grandTotal := len(spamDomains)

	rows := make([]dto.RelationshipRow, 0, len(order))
	for _, key := range order {
		data := pairs[key]
		rows = append(rows, dto.RelationshipRow{
			FromName:   key[0],
			Domain:     key[1],
			IP:         data.ip,
			Count:      data.count,
			Percentage: FormatPercentage(data.count, grandTotal),
		})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Count > rows[b].Count })
	return rows
}

func buildInboxRelationships(items []dto.RelationshipEvent) []dto.RelationshipRow {
	if len(items) == 0 {
		return nil
	}

	grandTotal := 0
	for _, item := range items {
		grandTotal += unitCount(item.Count)
	}

	rows := make([]dto.RelationshipRow, 0, len(items))
	for _, item := range items {
		fromName := item.FromName
		if fromName == "" {
			fromName = "Unknown"
		}
		domainName := item.Domain
		if domainName == "" {
			domainName = "Unknown"
		}
		rows = append(rows, dto.RelationshipRow{
			FromName:   fromName,
			Domain:     domainName,
			Count:      unitCount(item.Count),
			Percentage: FormatPercentage(unitCount(item.Count), grandTotal),
		})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Count > rows[b].Count })
	return rows
}

// buildTrend fills the fixed 24-bucket day trend from date-filtered but
// hour-UNfiltered actions: the trend always shows the whole day regardless
// of the hour filter.
func buildTrend(dailyActions []dto.ActionEvent) []dto.TrendPoint {
	trend := make([]dto.TrendPoint, 24)
	for i := range trend {
		trend[i] = dto.TrendPoint{Hour: hourLabel(i)}
	}
	for _, a := range dailyActions {
		hour := support.TimestampHour(a.Timestamp)
		if len(hour) != 2 {
			continue
		}
		idx := int(hour[0]-'0')*10 + int(hour[1]-'0')
		if idx < 0 || idx > 23 {
			continue
		}
		if a.Category == "spam" {
			trend[idx].Spam += unitCount(a.Count)
		} else {
			trend[idx].Inbox += unitCount(a.Count)
		}
	}
	return trend
}

func hourLabel(hour int) string {
	return string([]byte{byte('0' + hour/10), byte('0' + hour%10)}) + ":00"
}

func unitCount(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}

// sessionGroup holds actions bucketed by session in first-seen order.
type sessionGroup struct {
	byID  map[string][]dto.ActionEvent
	order []string
}

func groupBySession(actions []dto.ActionEvent) sessionGroup {
	g := sessionGroup{byID: make(map[string][]dto.ActionEvent)}
	for _, a := range actions {
		if _, seen := g.byID[a.Session]; !seen {
			g.order = append(g.order, a.Session)
		}
		g.byID[a.Session] = append(g.byID[a.Session], a)
	}
	return g
}

func (p *pipeline) sessionStats(sessions sessionGroup, actions []dto.ActionEvent, spread dto.SpamSpread) dto.SessionStats {
	var stats dto.SessionStats
	stats.Sessions = make([]dto.SessionRollup, 0, len(sessions.order))

	for _, id := range sessions.order {
		sessionActions := sessions.byID[id]
		inbox, spam := 0, 0
		profileSet := make(map[string]struct{})
		var profiles []string
		for _, a := range sessionActions {
			if a.Category == "inbox" {
				inbox += unitCount(a.Count)
			} else {
				spam += unitCount(a.Count)
			}
			if _, seen := profileSet[a.Profile]; !seen {
				profileSet[a.Profile] = struct{}{}
				profiles = append(profiles, a.Profile)
			}
		}
		total := inbox + spam
		spamPct := 0.0
		if total > 0 {
			spamPct = float64(spam) / float64(total) * 100
		}
		stats.Sessions = append(stats.Sessions, dto.SessionRollup{
			ID:       id,
			Inbox:    inbox,
			Spam:     spam,
			Total:    total,
			Entity:   p.namer.name(sessionActions[0].Entity),
			Profiles: profiles,
			SpamPct:  spamPct,
		})
	}

	stats.Stats.TotalProfiles = distinctProfiles(actions)
	stats.Stats.MinSpam = spread.Min
	stats.Stats.MaxSpam = spread.Max
	stats.Stats.AvgSpam = spread.Avg
	return stats
}

func spamSpread(spamActions []dto.ActionEvent) dto.SpamSpread {
	perProfile := make(map[string]int)
	for _, a := range spamActions {
		perProfile[a.Profile]++
	}
	if len(perProfile) == 0 {
		return dto.SpamSpread{Avg: "0"}
	}

	first := true
	min, max, total := 0, 0, 0
	for _, v := range perProfile {
		if first {
			min, max = v, v
			first = false
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		total += v
	}
	avg := float64(total) / float64(len(perProfile))
	return dto.SpamSpread{
		Min: min,
		Max: max,
		Avg: strconv.FormatFloat(avg, 'f', 2, 64),
	}
}

func distinctProfiles(actions []dto.ActionEvent) int {
	set := make(map[string]struct{})
	for _, a := range actions {
		set[a.Profile] = struct{}{}
	}
	return len(set)
}

func distinctSenders(items []dto.DomainEvent) int {
	set := make(map[string]struct{})
	for _, item := range items {
		set[item.Sender] = struct{}{}
	}
	return len(set)
}

func distinctDomains(items []dto.DomainEvent) int {
	set := make(map[string]struct{})
	for _, item := range items {
		set[item.Domain] = struct{}{}
	}
	return len(set)
}

func (p *pipeline) displayEntity(selected []string) string {
	switch len(selected) {
	case 0:
		return "ALL"
	case 1:
		return p.namer.name(selected[0])
	default:
		return "Multiple (" + strconv.Itoa(len(selected)) + ")"
	}
}

func displayHour(selected []string) string {
	switch len(selected) {
	case 0:
		return "ALL"
	case 1:
		return selected[0] + ":00"
	default:
		return "Multiple (" + strconv.Itoa(len(selected)) + ")"
	}
}

// reverseDate flips YYYY-MM-DD into the DD/MM/YYYY display form.
func reverseDate(date string) string {
	parts := strings.Split(date, "-")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
