package feed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"flood-watch/internal/gazetteer"
	"flood-watch/internal/models"
)

var alertTypes = []string{"Flash Flood Warning", "Water Level Rising", "Heavy Rainfall Alert", "Dam Release Warning"}

var routeStatuses = []models.RouteStatus{
	models.RouteOpen, models.RouteWarning, models.RouteClosed, models.RouteOpen,
	models.RouteOpen, models.RouteWarning, models.RouteOpen, models.RouteClosed,
}

// Demo generates plausible alerts and routes for Tamil Nadu. The same seed
// produces the same sequence of batches.
type Demo struct {
	mu    sync.Mutex
	rng   *rand.Rand
	areas []gazetteer.FloodProneArea
	g     *gazetteer.Gazetteer
}

func NewDemo(seed int64, g *gazetteer.Gazetteer) *Demo {
	return &Demo{
		rng:   rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		areas: gazetteer.FloodProneAreas(),
		g:     g,
	}
}

// LoadAlerts picks roughly half of the flood-prone areas and raises an alert for each.
func (d *Demo) LoadAlerts(ctx context.Context) ([]models.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]models.Alert, 0, len(d.areas))
	for i, area := range d.areas {
		if d.rng.Float64() <= 0.5 {
			continue
		}
		typ := alertTypes[d.rng.IntN(len(alertTypes))]
		p := area.Coordinates
		out = append(out, models.Alert{
			ID:          fmt.Sprintf("alert-%d", i),
			Type:        typ,
			Location:    area.Name,
			District:    area.District,
			Severity:    area.Risk,
			Time:        fmt.Sprintf("%d mins ago", d.rng.IntN(60)+5),
			Coordinates: &p,
			Description: fmt.Sprintf("%s issued for %s in %s district. Take necessary precautions.", typ, area.Name, area.District),
		})
	}
	return out, nil
}

// LoadRoutes builds one evacuation route for each of the first eight districts.
func (d *Demo) LoadRoutes(ctx context.Context) ([]models.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	names := d.g.RegionNames()
	if len(names) > len(routeStatuses) {
		names = names[:len(routeStatuses)]
	}

	out := make([]models.Route, 0, len(names))
	for i, name := range names {
		region, _ := d.g.FindRegion(name)
		start := region.Coordinates
		end := models.Point{
			Lat: start.Lat + d.rng.Float64()*0.1 - 0.05,
			Lng: start.Lng + d.rng.Float64()*0.1 - 0.05,
		}
		out = append(out, models.Route{
			ID:         fmt.Sprintf("route%d", i+1),
			Name:       name + " Evacuation Route",
			Status:     routeStatuses[i],
			Updated:    fmt.Sprintf("%d mins ago", []int{2, 5, 12, 15, 20, 25, 30, 35}[i]),
			StartPoint: &start,
			EndPoint:   &end,
			District:   name,
		})
	}
	return out, nil
}

var (
	requestTypes = []string{"Evacuation", "Medical Assistance", "Food and Water", "Shelter", "Rescue"}
	caseTypes    = []string{"Trapped Residents", "Medical Emergency", "Collapsed Structure", "Stranded Vehicle"}
	teamNames    = []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"}
	volunteers   = []string{"Arun", "Divya", "Karthik", "Meena", "Ravi", "Priya", "Suresh", "Lakshmi", "Vijay", "Anitha", "Bala", "Kavya"}

	requestStatuses = []models.RequestStatus{
		models.RequestPending, models.RequestPending, models.RequestInProgress, models.RequestPending,
		models.RequestCompleted, models.RequestPending, models.RequestInProgress, models.RequestRejected,
	}
	teamStatuses = []models.TeamStatus{models.TeamActive, models.TeamOnCall, models.TeamActive, models.TeamOffDuty, models.TeamOnCall, models.TeamOnCall}
)

// LoadResponse builds help requests and emergency cases at flood-prone areas,
// and rescue teams drawn from a fixed volunteer roster.
func (d *Demo) LoadResponse(ctx context.Context) (models.ResponseSet, error) {
	if err := ctx.Err(); err != nil {
		return models.ResponseSet{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var set models.ResponseSet
	for i, status := range requestStatuses {
		area := d.areas[d.rng.IntN(len(d.areas))]
		p := area.Coordinates
		set.Requests = append(set.Requests, models.HelpRequest{
			ID:          fmt.Sprintf("HR-%03d", i+1),
			Location:    area.Name,
			District:    area.District,
			Type:        requestTypes[d.rng.IntN(len(requestTypes))],
			Status:      status,
			Time:        fmt.Sprintf("%d mins ago", d.rng.IntN(120)+1),
			Coordinates: &p,
		})
	}

	for i, name := range teamNames {
		size := 2 + d.rng.IntN(3)
		members := make([]string, 0, size)
		for j := range size {
			members = append(members, volunteers[(i*2+j)%len(volunteers)])
		}
		set.Teams = append(set.Teams, models.Team{
			ID:       fmt.Sprintf("T-%d", i+1),
			Name:     "Team " + name,
			Location: d.areas[(i*3)%len(d.areas)].District,
			Status:   teamStatuses[i],
			Members:  members,
		})
	}

	for i := range 4 {
		area := d.areas[d.rng.IntN(len(d.areas))]
		typ := caseTypes[i%len(caseTypes)]
		set.Cases = append(set.Cases, models.EmergencyCase{
			ID:          fmt.Sprintf("EC-%d", i+1),
			Type:        typ,
			Location:    area.Name,
			District:    area.District,
			Priority:    area.Risk,
			Description: fmt.Sprintf("%s reported at %s in %s district.", typ, area.Name, area.District),
		})
	}
	return set, nil
}
