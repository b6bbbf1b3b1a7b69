package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"camino_routes/internal/trail"
)

const routesCollection = "routes"

// Mongo stores one document per route in the legacy wire shape, with
// distance band labels under avg_daily_distance_<n>.
type Mongo struct {
	collection *mongo.Collection
	decoder    *trail.Decoder
	now        func() time.Time
}

func NewMongo(db *mongo.Database, decoder *trail.Decoder) *Mongo {
	if decoder == nil {
		decoder = trail.NewDecoder(nil)
	}
	return &Mongo{
		collection: db.Collection(routesCollection),
		decoder:    decoder,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateIndexes indexes route_id. The index is not unique.
func (m *Mongo) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "route_id", Value: 1}}},
	}, options.CreateIndexes())
	return err
}

func (m *Mongo) Create(ctx context.Context, route trail.Route) (StoredRoute, error) {
	doc, err := trail.ExternalDocument(route, trail.Legacy)
	if err != nil {
		return StoredRoute{}, trail.NewStorageError("create", err)
	}
	ts := m.now()
	doc["created_at"] = ts
	doc["updated_at"] = ts

	res, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.RouteID).Error("store: mongo insert failed")
		return StoredRoute{}, trail.NewStorageError("create", err)
	}

	stored := StoredRoute{CreatedAt: ts, UpdatedAt: ts, Route: route}
	stored.Route.Fill()
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		stored.ID = oid.Hex()
	}
	return stored, nil
}

func (m *Mongo) FindByID(ctx context.Context, routeID string) (StoredRoute, error) {
	var raw bson.M
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := m.collection.FindOne(ctx, bson.M{"route_id": routeID}, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return StoredRoute{}, trail.ErrNotFound
		}
		return StoredRoute{}, trail.NewStorageError("find", err)
	}
	return m.fromBSON(raw)
}

func (m *Mongo) FindAll(ctx context.Context) ([]StoredRoute, error) {
	cursor, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, trail.NewStorageError("list", err)
	}
	defer cursor.Close(ctx)

	var out []StoredRoute
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, trail.NewStorageError("list", err)
		}
		s, err := m.fromBSON(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := cursor.Err(); err != nil {
		return nil, trail.NewStorageError("list", err)
	}
	return out, nil
}

// UpdateByID overwrites every route field of the oldest matching document in
// one atomic call. Only created_at survives.
func (m *Mongo) UpdateByID(ctx context.Context, routeID string, route trail.Route) (StoredRoute, error) {
	route.RouteID = routeID
	doc, err := trail.ExternalDocument(route, trail.Legacy)
	if err != nil {
		return StoredRoute{}, trail.NewStorageError("update", err)
	}
	doc["updated_at"] = m.now()

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetReturnDocument(options.After)

	var raw bson.M
	err = m.collection.FindOneAndUpdate(ctx, bson.M{"route_id": routeID}, bson.M{"$set": doc}, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return StoredRoute{}, trail.ErrNotFound
		}
		logrus.WithError(err).WithField("route_id", routeID).Error("store: mongo update failed")
		return StoredRoute{}, trail.NewStorageError("update", err)
	}
	return m.fromBSON(raw)
}

func (m *Mongo) fromBSON(raw bson.M) (StoredRoute, error) {
	var s StoredRoute
	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	if dt, ok := raw["created_at"].(primitive.DateTime); ok {
		s.CreatedAt = dt.Time().UTC()
	}
	if dt, ok := raw["updated_at"].(primitive.DateTime); ok {
		s.UpdatedAt = dt.Time().UTC()
	}

	doc, _ := plain(raw).(map[string]any)
	route, err := m.decoder.DecodeDocument(doc)
	if err != nil {
		return StoredRoute{}, trail.NewStorageError("decode", fmt.Errorf("stored route %s: %w", s.ID, err))
	}
	s.Route = route
	return s, nil
}

// plain converts decoded BSON values into the types encoding/json produces.
func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plain(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plain(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plain(val)
		}
		return out
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return t.Hex()
	}
	return v
}
