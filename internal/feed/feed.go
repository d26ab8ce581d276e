package feed

import (
	"context"

	"flood-watch/internal/models"
)

// Source produces the records a refresh replaces the catalogs with.
type Source interface {
	LoadAlerts(ctx context.Context) ([]models.Alert, error)
	LoadRoutes(ctx context.Context) ([]models.Route, error)
}

// ResponseSource produces the help requests, teams and cases loaded at startup.
type ResponseSource interface {
	LoadResponse(ctx context.Context) (models.ResponseSet, error)
}
