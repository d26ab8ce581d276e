package models

import (
	"math"
	"time"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat" db:"lat" validate:"latitude"`
	Lng float64 `json:"lng" db:"lng" validate:"longitude"`
}

// Valid reports whether p is a finite coordinate inside the WGS84 bounds.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Region is a gazetteer entry: a district with its canonical point and localities.
type Region struct {
	Name        string   `json:"name"`
	Coordinates Point    `json:"coordinates"`
	Localities  []string `json:"localities"`
}

// Alert is a location-tagged hazard report.
type Alert struct {
	ID          string   `json:"id" db:"id" validate:"required"`
	Type        string   `json:"type" db:"type"`
	Location    string   `json:"location" db:"location"`
	District    string   `json:"district" db:"district"`
	Severity    Severity `json:"severity" db:"severity" validate:"oneof=Low Medium High Critical"`
	Time        string   `json:"time" db:"time"`
	Coordinates *Point   `json:"coordinates" validate:"required"`
	Description string   `json:"description" db:"description"`
}

// Route is an evacuation route between two points.
type Route struct {
	ID         string      `json:"id" db:"id" validate:"required"`
	Name       string      `json:"name" db:"name"`
	Status     RouteStatus `json:"status" db:"status" validate:"oneof=Open Warning Closed"`
	Updated    string      `json:"updated" db:"updated"`
	StartPoint *Point      `json:"start_point" validate:"required"`
	EndPoint   *Point      `json:"end_point" validate:"required"`
	District   string      `json:"district" db:"district"`
}

// Viewport is the map center and zoom handed to the rendering layer.
type Viewport struct {
	Center Point `json:"center"`
	Zoom   int   `json:"zoom"`
}

// RouteStyle is the rendering intent derived from a route's status.
type RouteStyle struct {
	Color     string  `json:"color"`
	LineStyle string  `json:"line_style"` // "solid" or "dashed"
	DashArray string  `json:"dash_array,omitempty"`
	Opacity   float64 `json:"opacity"`
}

// MarkerStyle is the rendering intent derived from an alert's severity.
type MarkerStyle struct {
	Color        string `json:"color"`
	RadiusMeters int    `json:"radius_meters"`
}

// Broadcast is an emergency notification sent by an operator.
type Broadcast struct {
	ID       string    `json:"id" db:"id"`
	Message  string    `json:"message" db:"message"`
	District string    `json:"district,omitempty" db:"district"` // empty means all districts
	SentAt   time.Time `json:"sent_at" db:"sent_at"`
}

// RefreshStats summarises the last catalog refresh.
type RefreshStats struct {
	Source         string        `json:"source"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	AlertsAccepted int           `json:"alerts_accepted"`
	AlertsRejected int           `json:"alerts_rejected"`
	RoutesAccepted int           `json:"routes_accepted"`
	RoutesRejected int           `json:"routes_rejected"`
	Rejections     []string      `json:"rejections,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// HelpRequest is a citizen's call for assistance.
type HelpRequest struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name"`
	Location    string        `json:"location"`
	District    string        `json:"district"`
	Type        string        `json:"type"`
	Status      RequestStatus `json:"status" validate:"oneof=Pending 'In Progress' Completed Rejected"`
	Time        string        `json:"time"`
	Coordinates *Point        `json:"coordinates,omitempty"`
}

// Team is a group of volunteers that can be assigned to emergency cases.
type Team struct {
	ID       string     `json:"id" validate:"required"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Status   TeamStatus `json:"status" validate:"oneof=Active 'On Call' 'Off Duty'"`
	Members  []string   `json:"members"`
}

// EmergencyCase is an incident that rescue teams are dispatched to.
type EmergencyCase struct {
	ID                 string   `json:"id" validate:"required"`
	Type               string   `json:"type"`
	Location           string   `json:"location"`
	District           string   `json:"district"`
	Priority           Severity `json:"priority" validate:"oneof=Low Medium High Critical"`
	Description        string   `json:"description"`
	Teams              []string `json:"teams"`
	VolunteersAssigned int      `json:"volunteers_assigned"`
}

// ResponseSet is the rescue-operations state loaded at startup.
type ResponseSet struct {
	Requests []HelpRequest   `json:"requests"`
	Teams    []Team          `json:"teams"`
	Cases    []EmergencyCase `json:"cases"`
}
