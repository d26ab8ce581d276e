package catalog

import (
	"strings"

	"flood-watch/internal/gazetteer"
	"flood-watch/internal/models"
)

// SeveritySet is the set of severities an alert search accepts. An empty set matches nothing.
type SeveritySet map[models.Severity]struct{}

func NewSeveritySet(severities ...models.Severity) SeveritySet {
	s := make(SeveritySet, len(severities))
	for _, sev := range severities {
		s[sev] = struct{}{}
	}
	return s
}

// AllSeverities returns a set holding every severity.
func AllSeverities() SeveritySet {
	return NewSeveritySet(models.Severities...)
}

func (s SeveritySet) Contains(sev models.Severity) bool {
	_, ok := s[sev]
	return ok
}

// AlertQuery is the conjunction of a text, region and severity filter.
type AlertQuery struct {
	Text       string
	Region     string
	Severities SeveritySet
}

// Alerts is the alert catalog. Safe for one writer and many concurrent readers.
// Returned records are shared with the catalog and must not be mutated.
type Alerts struct {
	s *store[models.Alert]
}

func NewAlerts() *Alerts {
	return &Alerts{s: newStore(
		func(a models.Alert) string { return a.ID },
		validateAlert,
		func(a models.Alert) models.Alert {
			a.Coordinates = clonePoint(a.Coordinates)
			return a
		},
	)}
}

// Ingest validates a and inserts it, or overwrites the record with the same id in place.
func (c *Alerts) Ingest(a models.Alert) error {
	return c.s.ingest(a)
}

// Replace swaps the whole catalog for the valid records of alerts.
func (c *Alerts) Replace(alerts []models.Alert) BatchResult {
	return c.s.replace(alerts)
}

func (c *Alerts) Get(id string) (models.Alert, bool) {
	return c.s.get(id)
}

func (c *Alerts) Remove(id string) bool {
	return c.s.remove(id)
}

func (c *Alerts) Clear() {
	c.s.clear()
}

func (c *Alerts) Len() int {
	return c.s.len()
}

// All returns every alert in insertion order.
func (c *Alerts) All() []models.Alert {
	return c.s.all()
}

// Search returns the alerts matching q in insertion order.
func (c *Alerts) Search(q AlertQuery) []models.Alert {
	text := strings.ToLower(q.Text)
	return c.s.filter(func(a models.Alert) bool {
		return q.Severities.Contains(a.Severity) &&
			matchRegion(q.Region, a.District) &&
			matchText(text, a.Location, a.District, a.Type)
	})
}

// CountBySeverity returns the number of alerts per severity.
func (c *Alerts) CountBySeverity() map[models.Severity]int {
	out := make(map[models.Severity]int, len(models.Severities))
	for _, sev := range models.Severities {
		out[sev] = 0
	}
	for _, a := range c.s.load().items {
		out[a.Severity]++
	}
	return out
}

// MarkerStyle returns the map marker for an alert severity.
func MarkerStyle(sev models.Severity) models.MarkerStyle {
	switch sev {
	case models.SeverityCritical:
		return models.MarkerStyle{Color: "red", RadiusMeters: 2000}
	case models.SeverityHigh:
		return models.MarkerStyle{Color: "orange", RadiusMeters: 1500}
	case models.SeverityMedium:
		return models.MarkerStyle{Color: "yellow", RadiusMeters: 1000}
	default:
		return models.MarkerStyle{Color: "blue", RadiusMeters: 500}
	}
}

func matchRegion(region, district string) bool {
	return gazetteer.IsAll(region) || region == district
}

// matchText expects text already lowercased.
func matchText(text string, fields ...string) bool {
	if text == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), text) {
			return true
		}
	}
	return false
}
