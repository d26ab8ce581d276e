package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"flood-watch/internal/models"
)

var (
	// ErrNotFound is returned when an update names an unknown record.
	ErrNotFound = errors.New("not found")
	// ErrRequestClosed is returned when a completed or rejected request is changed again.
	ErrRequestClosed = errors.New("request already closed")
	// ErrTeamUnavailable is returned when an off-duty team is assigned.
	ErrTeamUnavailable = errors.New("team is off duty")
)

// ResponseCounts are the rescue-operations counters shown on the dashboard.
type ResponseCounts struct {
	PendingRequests int `json:"pending_requests"`
	ActiveTeams     int `json:"active_teams"`
	Volunteers      int `json:"volunteers"`
	EmergencyCases  int `json:"emergency_cases"`
}

// Response holds help requests, rescue teams and emergency cases. Reads are
// lock-free like Alerts. Writes that touch both teams and cases serialise on mu.
type Response struct {
	mu       sync.Mutex
	requests *store[models.HelpRequest]
	teams    *store[models.Team]
	cases    *store[models.EmergencyCase]
}

func NewResponse() *Response {
	return &Response{
		requests: newStore(
			func(r models.HelpRequest) string { return r.ID },
			validateRequest,
			func(r models.HelpRequest) models.HelpRequest {
				r.Coordinates = clonePoint(r.Coordinates)
				return r
			},
		),
		teams: newStore(
			func(t models.Team) string { return t.ID },
			validateTeam,
			func(t models.Team) models.Team {
				t.Members = slices.Clone(t.Members)
				return t
			},
		),
		cases: newStore(
			func(c models.EmergencyCase) string { return c.ID },
			validateCase,
			func(c models.EmergencyCase) models.EmergencyCase {
				c.Teams = slices.Clone(c.Teams)
				return c
			},
		),
	}
}

// Load replaces every collection with the valid records of set.
func (r *Response) Load(set models.ResponseSet) BatchResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res BatchResult
	for _, b := range []BatchResult{
		r.requests.replace(set.Requests),
		r.teams.replace(set.Teams),
		r.cases.replace(set.Cases),
	} {
		res.Accepted += b.Accepted
		res.Rejected += b.Rejected
		res.Errors = append(res.Errors, b.Errors...)
	}
	return res
}

// Requests returns help requests in region with the given status. An empty
// status matches every request.
func (r *Response) Requests(region string, status models.RequestStatus) []models.HelpRequest {
	return r.requests.filter(func(req models.HelpRequest) bool {
		return matchRegion(region, req.District) && (status == "" || req.Status == status)
	})
}

func (r *Response) Request(id string) (models.HelpRequest, bool) {
	return r.requests.get(id)
}

func (r *Response) Teams() []models.Team {
	return r.teams.all()
}

func (r *Response) Team(id string) (models.Team, bool) {
	return r.teams.get(id)
}

// Cases returns emergency cases in region.
func (r *Response) Cases(region string) []models.EmergencyCase {
	return r.cases.filter(func(c models.EmergencyCase) bool {
		return matchRegion(region, c.District)
	})
}

func (r *Response) Case(id string) (models.EmergencyCase, bool) {
	return r.cases.get(id)
}

// UpdateRequest moves a help request to status. Closed requests are final.
func (r *Response) UpdateRequest(id string, status models.RequestStatus) (models.HelpRequest, error) {
	if !status.Valid() {
		return models.HelpRequest{}, &RecordError{Kind: "request", ID: id, Reason: fmt.Sprintf("unknown status %q", status)}
	}

	req, ok, err := r.requests.update(id, func(req models.HelpRequest) (models.HelpRequest, error) {
		if req.Status.Closed() && req.Status != status {
			return req, fmt.Errorf("request %q is %s: %w", id, req.Status, ErrRequestClosed)
		}
		req.Status = status
		return req, nil
	})
	if !ok {
		return models.HelpRequest{}, fmt.Errorf("request %q: %w", id, ErrNotFound)
	}
	return req, err
}

// AssignTeam dispatches a team to an emergency case and marks the team active.
// Assigning a team twice leaves the case unchanged.
func (r *Response) AssignTeam(caseID, teamID string) (models.EmergencyCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams.get(teamID)
	if !ok {
		return models.EmergencyCase{}, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}
	if team.Status == models.TeamOffDuty {
		return models.EmergencyCase{}, fmt.Errorf("team %q: %w", teamID, ErrTeamUnavailable)
	}

	c, ok, err := r.cases.update(caseID, func(c models.EmergencyCase) (models.EmergencyCase, error) {
		if slices.Contains(c.Teams, teamID) {
			return c, nil
		}
		c.Teams = append(slices.Clone(c.Teams), teamID)
		c.VolunteersAssigned += len(team.Members)
		return c, nil
	})
	if !ok {
		return models.EmergencyCase{}, fmt.Errorf("case %q: %w", caseID, ErrNotFound)
	}
	if err != nil {
		return models.EmergencyCase{}, err
	}

	if team.Status != models.TeamActive {
		_, _, err = r.teams.update(teamID, func(t models.Team) (models.Team, error) {
			t.Status = models.TeamActive
			return t, nil
		})
		if err != nil {
			return models.EmergencyCase{}, err
		}
	}
	return c, nil
}

// Counts returns the dashboard counters. Volunteers are the distinct members across all teams.
func (r *Response) Counts() ResponseCounts {
	var out ResponseCounts
	for _, req := range r.requests.load().items {
		if req.Status == models.RequestPending {
			out.PendingRequests++
		}
	}

	members := map[string]struct{}{}
	for _, t := range r.teams.load().items {
		if t.Status == models.TeamActive {
			out.ActiveTeams++
		}
		for _, m := range t.Members {
			members[m] = struct{}{}
		}
	}
	out.Volunteers = len(members)
	out.EmergencyCases = r.cases.len()
	return out
}
