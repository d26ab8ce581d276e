package database

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"flood-watch/internal/models"
)

var (
	alertColumns = []string{"id", "type", "location", "district", "severity", "time_label", "latitude", "longitude", "description"}
	routeColumns = []string{"id", "name", "status", "updated_label", "start_lat", "start_lng", "end_lat", "end_lng", "district"}
)

func listAlertsQuery() squirrel.SelectBuilder {
	return builder().Select(alertColumns...).From(tableAlerts).OrderBy("seq")
}

func listRoutesQuery() squirrel.SelectBuilder {
	return builder().Select(routeColumns...).From(tableRoutes).OrderBy("seq")
}

// LoadAlerts returns every stored alert in insertion order. Rows with NULL
// coordinates come back with nil Coordinates so ingest can reject them.
func (db *DB) LoadAlerts(ctx context.Context) ([]models.Alert, error) {
	rows, err := db.query(ctx, listAlertsQuery())
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var (
			a        models.Alert
			sev      string
			lat, lng *float64
		)
		if err := rows.Scan(&a.ID, &a.Type, &a.Location, &a.District, &sev, &a.Time, &lat, &lng, &a.Description); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Severity = models.Severity(sev)
		a.Coordinates = point(lat, lng)
		out = append(out, a)
	}
	return out, rows.Err()
}

// LoadRoutes returns every stored route in insertion order.
func (db *DB) LoadRoutes(ctx context.Context) ([]models.Route, error) {
	rows, err := db.query(ctx, listRoutesQuery())
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var out []models.Route
	for rows.Next() {
		var (
			r                      models.Route
			status                 string
			sLat, sLng, eLat, eLng *float64
		)
		if err := rows.Scan(&r.ID, &r.Name, &status, &r.Updated, &sLat, &sLng, &eLat, &eLng, &r.District); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		r.Status = models.RouteStatus(status)
		r.StartPoint = point(sLat, sLng)
		r.EndPoint = point(eLat, eLng)
		out = append(out, r)
	}
	return out, rows.Err()
}

func upsertAlertQuery(a models.Alert) squirrel.InsertBuilder {
	var lat, lng *float64
	if a.Coordinates != nil {
		lat, lng = &a.Coordinates.Lat, &a.Coordinates.Lng
	}
	return builder().Insert(tableAlerts).
		Columns(alertColumns...).
		Values(a.ID, a.Type, a.Location, a.District, string(a.Severity), a.Time, lat, lng, a.Description).
		Suffix(`ON CONFLICT (id) DO UPDATE SET type = excluded.type, location = excluded.location,
			district = excluded.district, severity = excluded.severity, time_label = excluded.time_label,
			latitude = excluded.latitude, longitude = excluded.longitude, description = excluded.description`)
}

// UpsertAlert stores an alert, keeping its original position on update.
func (db *DB) UpsertAlert(ctx context.Context, a models.Alert) error {
	if err := db.exec(ctx, upsertAlertQuery(a)); err != nil {
		return fmt.Errorf("upsert alert %s: %w", a.ID, err)
	}
	return nil
}

func upsertRouteQuery(r models.Route) squirrel.InsertBuilder {
	var sLat, sLng, eLat, eLng *float64
	if r.StartPoint != nil {
		sLat, sLng = &r.StartPoint.Lat, &r.StartPoint.Lng
	}
	if r.EndPoint != nil {
		eLat, eLng = &r.EndPoint.Lat, &r.EndPoint.Lng
	}
	return builder().Insert(tableRoutes).
		Columns(routeColumns...).
		Values(r.ID, r.Name, string(r.Status), r.Updated, sLat, sLng, eLat, eLng, r.District).
		Suffix(`ON CONFLICT (id) DO UPDATE SET name = excluded.name, status = excluded.status,
			updated_label = excluded.updated_label, start_lat = excluded.start_lat, start_lng = excluded.start_lng,
			end_lat = excluded.end_lat, end_lng = excluded.end_lng, district = excluded.district`)
}

func (db *DB) UpsertRoute(ctx context.Context, r models.Route) error {
	if err := db.exec(ctx, upsertRouteQuery(r)); err != nil {
		return fmt.Errorf("upsert route %s: %w", r.ID, err)
	}
	return nil
}

func point(lat, lng *float64) *models.Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &models.Point{Lat: *lat, Lng: *lng}
}
