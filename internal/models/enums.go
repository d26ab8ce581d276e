package models

import "fmt"

// Severity is the hazard urgency of an alert, ordered Low < Medium < High < Critical.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists every severity in increasing urgency.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank returns the urgency order of s, or -1 for values outside the enum.
func (s Severity) Rank() int {
	for i, v := range Severities {
		if v == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// ParseSeverity converts a raw string into a Severity.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", raw)
	}
	return s, nil
}

// RouteStatus is the operability of an evacuation route.
type RouteStatus string

const (
	RouteOpen    RouteStatus = "Open"
	RouteWarning RouteStatus = "Warning"
	RouteClosed  RouteStatus = "Closed"
)

// RouteStatuses lists every route status.
var RouteStatuses = []RouteStatus{RouteOpen, RouteWarning, RouteClosed}

// Valid reports whether s is one of the known statuses.
func (s RouteStatus) Valid() bool {
	switch s {
	case RouteOpen, RouteWarning, RouteClosed:
		return true
	}
	return false
}

// ParseRouteStatus converts a raw string into a RouteStatus.
func ParseRouteStatus(raw string) (RouteStatus, error) {
	s := RouteStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown route status %q", raw)
	}
	return s, nil
}

// RequestStatus is the lifecycle state of a help request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "Pending"
	RequestInProgress RequestStatus = "In Progress"
	RequestCompleted  RequestStatus = "Completed"
	RequestRejected   RequestStatus = "Rejected"
)

// RequestStatuses lists every request status.
var RequestStatuses = []RequestStatus{RequestPending, RequestInProgress, RequestCompleted, RequestRejected}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestInProgress, RequestCompleted, RequestRejected:
		return true
	}
	return false
}

// Closed reports whether s is a final state. Closed requests cannot change again.
func (s RequestStatus) Closed() bool {
	return s == RequestCompleted || s == RequestRejected
}

// ParseRequestStatus converts a raw string into a RequestStatus.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	s := RequestStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown request status %q", raw)
	}
	return s, nil
}

// TeamStatus is the availability of a rescue team.
type TeamStatus string

const (
	TeamActive  TeamStatus = "Active"
	TeamOnCall  TeamStatus = "On Call"
	TeamOffDuty TeamStatus = "Off Duty"
)

var TeamStatuses = []TeamStatus{TeamActive, TeamOnCall, TeamOffDuty}
