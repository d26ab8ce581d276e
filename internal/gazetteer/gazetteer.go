package gazetteer

import (
	"fmt"
	"strings"

	"flood-watch/internal/models"
)

const (
	// AllDistricts is the selector value meaning "no region filter".
	AllDistricts = "All Districts"
	// AllLocalities is the placeholder locality some feeds attach to AllDistricts.
	AllLocalities = "All Localities"
)

// IsAll reports whether name is the "no region filter" sentinel. The empty string counts.
func IsAll(name string) bool {
	return name == "" || name == AllDistricts
}

func isSentinelLocality(name string) bool {
	return strings.EqualFold(name, AllLocalities) || strings.EqualFold(name, AllDistricts)
}

// Gazetteer is an immutable table of regions. Safe for concurrent use.
type Gazetteer struct {
	regions []models.Region
	byName  map[string]int
	all     []string
}

// New builds a gazetteer. Sentinel-named entries are skipped and the first
// entry wins for duplicate names.
func New(regions []models.Region) (*Gazetteer, error) {
	g := &Gazetteer{
		regions: make([]models.Region, 0, len(regions)),
		byName:  make(map[string]int, len(regions)),
	}

	for _, r := range regions {
		if r.Name == "" {
			return nil, fmt.Errorf("gazetteer: region with empty name")
		}
		if IsAll(r.Name) {
			continue
		}
		if !r.Coordinates.Valid() {
			return nil, fmt.Errorf("gazetteer: region %q has invalid coordinates (%v, %v)", r.Name, r.Coordinates.Lat, r.Coordinates.Lng)
		}
		if _, dup := g.byName[r.Name]; dup {
			continue
		}

		localities := make([]string, len(r.Localities))
		copy(localities, r.Localities)
		r.Localities = localities

		g.byName[r.Name] = len(g.regions)
		g.regions = append(g.regions, r)
	}

	seen := make(map[string]struct{})
	g.all = []string{}
	for _, r := range g.regions {
		for _, l := range r.Localities {
			if isSentinelLocality(l) {
				continue
			}
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			g.all = append(g.all, l)
		}
	}

	return g, nil
}

// FindRegion looks a region up by exact, case-sensitive name.
func (g *Gazetteer) FindRegion(name string) (models.Region, bool) {
	i, ok := g.byName[name]
	if !ok {
		return models.Region{}, false
	}
	r := g.regions[i]
	r.Localities = append([]string(nil), r.Localities...)
	return r, true
}

// RegionNames returns region names in load order.
func (g *Gazetteer) RegionNames() []string {
	names := make([]string, len(g.regions))
	for i, r := range g.regions {
		names[i] = r.Name
	}
	return names
}

// Len returns the number of regions.
func (g *Gazetteer) Len() int {
	return len(g.regions)
}

// LocalitiesOf returns the localities of a region. For the AllDistricts
// sentinel it returns the deduplicated union across all regions in first-seen
// order. Unknown names yield an empty slice.
func (g *Gazetteer) LocalitiesOf(name string) []string {
	if IsAll(name) {
		return append([]string{}, g.all...)
	}
	i, ok := g.byName[name]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(g.regions[i].Localities))
	for _, l := range g.regions[i].Localities {
		if !isSentinelLocality(l) {
			out = append(out, l)
		}
	}
	return out
}
