package catalog

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flood-watch/internal/gazetteer"
	"flood-watch/internal/models"
)

func alert(id, typ, location, district string, sev models.Severity) models.Alert {
	return models.Alert{
		ID:          id,
		Type:        typ,
		Location:    location,
		District:    district,
		Severity:    sev,
		Time:        "5 mins ago",
		Coordinates: &models.Point{Lat: 13.0, Lng: 80.2},
	}
}

func ids(alerts []models.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.ID
	}
	return out
}

func TestIngestRejectsUnknownSeverity(t *testing.T) {
	c := NewAlerts()
	require.NoError(t, c.Ingest(alert("a1", "Flash Flood Warning", "Adyar", "Chennai", models.SeverityHigh)))

	err := c.Ingest(alert("a2", "Flash Flood Warning", "Adyar", "Chennai", "Unknown"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "alert", recErr.Kind)
	assert.Equal(t, "a2", recErr.ID)
	assert.Equal(t, 1, c.Len())
}

func TestIngestRejectsMissingOrBadCoordinates(t *testing.T) {
	c := NewAlerts()

	missing := alert("a1", "t", "l", "Chennai", models.SeverityLow)
	missing.Coordinates = nil
	assert.ErrorIs(t, c.Ingest(missing), ErrInvalidRecord)

	nan := alert("a2", "t", "l", "Chennai", models.SeverityLow)
	nan.Coordinates = &models.Point{Lat: math.NaN(), Lng: 80}
	assert.ErrorIs(t, c.Ingest(nan), ErrInvalidRecord)

	out := alert("a3", "t", "l", "Chennai", models.SeverityLow)
	out.Coordinates = &models.Point{Lat: 13, Lng: 181}
	assert.ErrorIs(t, c.Ingest(out), ErrInvalidRecord)

	noID := alert("", "t", "l", "Chennai", models.SeverityLow)
	assert.ErrorIs(t, c.Ingest(noID), ErrInvalidRecord)

	assert.Zero(t, c.Len())
}

func TestIngestOverwriteKeepsPosition(t *testing.T) {
	c := NewAlerts()
	require.NoError(t, c.Ingest(alert("a1", "t", "first", "Chennai", models.SeverityLow)))
	require.NoError(t, c.Ingest(alert("a2", "t", "second", "Chennai", models.SeverityLow)))
	require.NoError(t, c.Ingest(alert("a1", "t", "updated", "Chennai", models.SeverityHigh)))

	all := c.All()
	assert.Equal(t, []string{"a1", "a2"}, ids(all))
	assert.Equal(t, "updated", all[0].Location)
}

func TestIngestCopiesCoordinates(t *testing.T) {
	c := NewAlerts()
	a := alert("a1", "t", "l", "Chennai", models.SeverityLow)
	require.NoError(t, c.Ingest(a))
	a.Coordinates.Lat = 0

	got, ok := c.Get("a1")
	require.True(t, ok)
	assert.Equal(t, 13.0, got.Coordinates.Lat)
}

func TestReplaceReportsPartialBatch(t *testing.T) {
	c := NewAlerts()
	require.NoError(t, c.Ingest(alert("old", "t", "l", "Chennai", models.SeverityLow)))

	res := c.Replace([]models.Alert{
		alert("a1", "t", "l", "Chennai", models.SeverityLow),
		alert("bad", "t", "l", "Chennai", "Severe"),
		alert("a2", "t", "l", "Chennai", models.SeverityHigh),
		alert("a1", "t", "dup", "Chennai", models.SeverityMedium),
	})

	assert.Equal(t, 3, res.Accepted)
	assert.Equal(t, 1, res.Rejected)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], ErrInvalidRecord)
	assert.Len(t, res.Reasons(), 1)

	all := c.All()
	assert.Equal(t, []string{"a1", "a2"}, ids(all))
	assert.Equal(t, "dup", all[0].Location)
	_, ok := c.Get("old")
	assert.False(t, ok)
}

func TestSearchAllFiltersMatchEverything(t *testing.T) {
	c := NewAlerts()
	c.Replace([]models.Alert{
		alert("a1", "Flash Flood Warning", "Adyar River Basin", "Chennai", models.SeverityHigh),
		alert("a2", "Dam Release Warning", "Vaigai River Basin", "Madurai", models.SeverityMedium),
		alert("a3", "Heavy Rainfall Alert", "Noyyal River", "Coimbatore", models.SeverityLow),
		alert("a4", "Water Level Rising", "Mudichur", "Unknown", models.SeverityCritical),
	})

	got := c.Search(AlertQuery{Region: gazetteer.AllDistricts, Severities: AllSeverities()})
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, ids(got))
}

func TestSearchDistrictAndText(t *testing.T) {
	c := NewAlerts()
	c.Replace([]models.Alert{
		alert("hit", "Flash Flood Warning", "Adyar River Basin", "Chennai", models.SeverityHigh),
		alert("wrong-district", "Flash Flood Warning", "Vaigai River Basin", "Madurai", models.SeverityHigh),
		alert("wrong-text", "Heavy Rainfall Alert", "Velachery", "Chennai", models.SeverityHigh),
		alert("hit-type", "RIVER overflow", "Mudichur", "Chennai", models.SeverityCritical),
		alert("case", "Flash Flood Warning", "Cooum River Area", "chennai", models.SeverityHigh),
	})

	got := c.Search(AlertQuery{Text: "river", Region: "Chennai", Severities: AllSeverities()})
	assert.Equal(t, []string{"hit", "hit-type"}, ids(got))
}

func TestSearchSeverities(t *testing.T) {
	c := NewAlerts()
	c.Replace([]models.Alert{
		alert("low", "t", "l", "Chennai", models.SeverityLow),
		alert("high", "t", "l", "Chennai", models.SeverityHigh),
		alert("crit", "t", "l", "Chennai", models.SeverityCritical),
	})

	tests := []struct {
		name string
		set  SeveritySet
		want []string
	}{
		{"default", NewSeveritySet(models.SeverityHigh, models.SeverityCritical), []string{"high", "crit"}},
		{"single", NewSeveritySet(models.SeverityLow), []string{"low"}},
		{"empty matches none", NewSeveritySet(), []string{}},
		{"nil matches none", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(AlertQuery{Severities: tt.set})
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearchIsOrderPreservingSubset(t *testing.T) {
	c := NewAlerts()
	var batch []models.Alert
	for i := 0; i < 40; i++ {
		sev := models.Severities[i%len(models.Severities)]
		district := []string{"Chennai", "Madurai", "Salem"}[i%3]
		batch = append(batch, alert(fmt.Sprintf("a%02d", i), "Water Level Rising", fmt.Sprintf("Loc %d", i), district, sev))
	}
	c.Replace(batch)

	queries := []AlertQuery{
		{Text: "loc 1", Region: "", Severities: AllSeverities()},
		{Text: "", Region: "Salem", Severities: NewSeveritySet(models.SeverityHigh)},
		{Text: "water", Region: "Madurai", Severities: NewSeveritySet(models.SeverityLow, models.SeverityCritical)},
	}
	all := ids(c.All())
	for _, q := range queries {
		got := ids(c.Search(q))
		last := -1
		for _, id := range got {
			pos := indexOf(all, id)
			require.GreaterOrEqual(t, pos, 0)
			assert.Greater(t, pos, last)
			last = pos
		}
	}
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

func TestRemoveAndClear(t *testing.T) {
	c := NewAlerts()
	c.Replace([]models.Alert{
		alert("a1", "t", "l", "Chennai", models.SeverityLow),
		alert("a2", "t", "l", "Chennai", models.SeverityLow),
		alert("a3", "t", "l", "Chennai", models.SeverityLow),
	})

	assert.True(t, c.Remove("a2"))
	assert.False(t, c.Remove("a2"))
	assert.Equal(t, []string{"a1", "a3"}, ids(c.All()))

	a3, ok := c.Get("a3")
	require.True(t, ok)
	assert.Equal(t, "a3", a3.ID)

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Search(AlertQuery{Severities: AllSeverities()}))
}

func TestCountBySeverity(t *testing.T) {
	c := NewAlerts()
	c.Replace([]models.Alert{
		alert("a1", "t", "l", "Chennai", models.SeverityHigh),
		alert("a2", "t", "l", "Chennai", models.SeverityHigh),
		alert("a3", "t", "l", "Chennai", models.SeverityLow),
	})
	counts := c.CountBySeverity()
	assert.Equal(t, 2, counts[models.SeverityHigh])
	assert.Equal(t, 1, counts[models.SeverityLow])
	assert.Equal(t, 0, counts[models.SeverityCritical])
}

func TestMarkerStyle(t *testing.T) {
	assert.Equal(t, models.MarkerStyle{Color: "red", RadiusMeters: 2000}, MarkerStyle(models.SeverityCritical))
	assert.Equal(t, models.MarkerStyle{Color: "orange", RadiusMeters: 1500}, MarkerStyle(models.SeverityHigh))
	assert.Equal(t, models.MarkerStyle{Color: "yellow", RadiusMeters: 1000}, MarkerStyle(models.SeverityMedium))
	assert.Equal(t, models.MarkerStyle{Color: "blue", RadiusMeters: 500}, MarkerStyle(models.SeverityLow))
}

// Readers must only ever see a whole batch: every snapshot holds either the
// "a" generation or the "b" generation, never a mix.
func TestReplaceIsAtomicForReaders(t *testing.T) {
	c := NewAlerts()
	gen := func(prefix string, sev models.Severity) []models.Alert {
		out := make([]models.Alert, 50)
		for i := range out {
			out[i] = alert(fmt.Sprintf("%s%d", prefix, i), "t", "l", "Chennai", sev)
		}
		return out
	}
	a, b := gen("a", models.SeverityLow), gen("b", models.SeverityHigh)
	c.Replace(a)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got := c.Search(AlertQuery{Severities: AllSeverities()})
				if !assert.Len(t, got, 50) {
					return
				}
				for _, x := range got[1:] {
					if !assert.Equal(t, got[0].Severity, x.Severity) {
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			c.Replace(b)
		} else {
			c.Replace(a)
		}
	}
	close(stop)
	wg.Wait()
}
