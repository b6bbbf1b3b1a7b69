package store

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"camino_routes/internal/trail"
)

// Memory keeps routes in process. It is used for development and tests.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	routes []StoredRoute
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Create(_ context.Context, route trail.Route) (StoredRoute, error) {
	cp, err := clone(route)
	if err != nil {
		return StoredRoute{}, trail.NewStorageError("create", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	ts := m.now()
	m.routes = append(m.routes, StoredRoute{ID: strconv.Itoa(m.nextID), CreatedAt: ts, UpdatedAt: ts, Route: cp})
	return m.copyOf(len(m.routes) - 1)
}

func (m *Memory) FindByID(_ context.Context, routeID string) (StoredRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(routeID)
	if i < 0 {
		return StoredRoute{}, trail.ErrNotFound
	}
	return m.copyOf(i)
}

func (m *Memory) FindAll(_ context.Context) ([]StoredRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]StoredRoute, 0, len(m.routes))
	for i := range m.routes {
		s, err := m.copyOf(i)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *Memory) UpdateByID(_ context.Context, routeID string, route trail.Route) (StoredRoute, error) {
	route.RouteID = routeID
	cp, err := clone(route)
	if err != nil {
		return StoredRoute{}, trail.NewStorageError("update", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(routeID)
	if i < 0 {
		return StoredRoute{}, trail.ErrNotFound
	}
	m.routes[i].Route = cp
	m.routes[i].UpdatedAt = m.now()
	return m.copyOf(i)
}

func (m *Memory) copyOf(i int) (StoredRoute, error) {
	s := m.routes[i]
	cp, err := clone(s.Route)
	if err != nil {
		return StoredRoute{}, trail.NewStorageError("read", err)
	}
	s.Route = cp
	return s, nil
}

// indexOf returns the oldest route with routeID, or -1.
func (m *Memory) indexOf(routeID string) int {
	for i, s := range m.routes {
		if s.Route.RouteID == routeID {
			return i
		}
	}
	return -1
}

// clone deep-copies a route so callers cannot mutate stored state.
func clone(route trail.Route) (trail.Route, error) {
	route.Fill()
	b, err := json.Marshal(route)
	if err != nil {
		return trail.Route{}, err
	}
	var out trail.Route
	if err := json.Unmarshal(b, &out); err != nil {
		return trail.Route{}, err
	}
	return out, nil
}
