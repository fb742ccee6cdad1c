// Package stats turns the raw dashboard feed into the derived view-model:
// filtering, cross-tabulation, relationship graphs, the hourly trend,
// session roll-ups, insights and alerts. Everything here is a pure function
// of (feed, filters); nothing is cached between calls.
package stats

import (
	"regexp"
	"strconv"
	"strings"

	"inboxradar/internal/api/dto"
)

var cmhPattern = regexp.MustCompile(`^cmh[_\s]?(\d+)`)

// EntityFromSession derives an entity id from a session name. The prefix
// rules below are the complete grammar; sessions matching none of them fall
// back to their first underscore token.
func EntityFromSession(session string) string {
	if session == "" {
		return "Unknown"
	}
	s := strings.ToLower(session)

	switch {
	case strings.HasPrefix(s, "cmh"):
		if m := cmhPattern.FindStringSubmatch(s); m != nil {
			return "ent_cmh" + m[1]
		}
		return "ent_" + firstToken(s, "_")
	case strings.HasPrefix(s, "ent_"):
		tokens := strings.Split(s, "_")
		if len(tokens) >= 2 {
			return tokens[0] + "_" + tokens[1]
		}
		return s
	case strings.HasPrefix(s, "ent "):
		return "ent_" + strings.Split(s, " ")[1]
	default:
		return firstToken(s, "_")
	}
}

func firstToken(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// FormatPercentage renders value/total as a percentage with one decimal.
// A zero or negative total yields "0.0" instead of NaN.
func FormatPercentage(value, total int) string {
	if total <= 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(value)/float64(total)*100, 'f', 1, 64)
}

// entityNamer resolves entity ids to display names from the known entity
// list, falling back to the upper-cased slug remainder.
type entityNamer struct {
	byID map[string]string
}

func newEntityNamer(entities []dto.EntityRef) entityNamer {
	byID := make(map[string]string, len(entities))
	for _, e := range entities {
		byID[e.ID] = e.Name
	}
	return entityNamer{byID: byID}
}

func (n entityNamer) name(entityID string) string {
	if entityID == "" {
		return "Unknown"
	}
	if name, ok := n.byID[entityID]; ok && name != "" {
		return name
	}
	if strings.HasPrefix(entityID, "ent_") {
		return strings.ToUpper(strings.TrimPrefix(entityID, "ent_"))
	}
	return entityID
}
