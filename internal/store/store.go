// Package store persists routes. Every implementation takes and returns the
// validated trail.Route value; updates replace the whole nested structure.
package store

import (
	"context"
	"errors"
	"time"

	"camino_routes/internal/trail"
)

// StoredRoute is a route as held by a backend.
type StoredRoute struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Route     trail.Route `json:"route"`
}

// Repository is the persistence contract consumed by the HTTP layer and the
// CLI. FindByID and UpdateByID return trail.ErrNotFound for unknown ids.
// Backend failures are *trail.StorageError.
type Repository interface {
	Create(ctx context.Context, route trail.Route) (StoredRoute, error)
	FindByID(ctx context.Context, routeID string) (StoredRoute, error)
	FindAll(ctx context.Context) ([]StoredRoute, error)
	UpdateByID(ctx context.Context, routeID string, route trail.Route) (StoredRoute, error)
}

// Routes unwraps stored routes in order.
func Routes(stored []StoredRoute) []trail.Route {
	out := make([]trail.Route, len(stored))
	for i, s := range stored {
		out[i] = s.Route
	}
	return out
}

// Save replaces the route stored under route.RouteID, or creates it when
// none exists. created reports which happened.
func Save(ctx context.Context, repo Repository, route trail.Route) (stored StoredRoute, created bool, err error) {
	stored, err = repo.UpdateByID(ctx, route.RouteID, route)
	if errors.Is(err, trail.ErrNotFound) {
		stored, err = repo.Create(ctx, route)
		return stored, err == nil, err
	}
	return stored, false, err
}
