package store

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Runs only when ROUTES_TEST_MONGO_URI points at a disposable server.
func TestMongo_Contract(t *testing.T) {
	uri := os.Getenv("ROUTES_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ROUTES_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	db := client.Database("routes_test_" + strconv.FormatInt(time.Now().UnixNano(), 36))
	defer db.Drop(context.Background())

	repo := NewMongo(db, nil)
	require.NoError(t, repo.CreateIndexes(ctx))

	testRepository(t, repo, "mongo")

	// stored documents use the positional legacy keys
	var raw bson.M
	require.NoError(t, db.Collection(routesCollection).FindOne(ctx, bson.M{"route_id": "mongo-create"}).Decode(&raw))
	band := raw["avg_daily_distance"].(bson.A)[0].(bson.M)
	assert.Equal(t, "20-25 km", band["avg_daily_distance_1"])
	assert.NotContains(t, band, "label")
}

func TestPlain_ConvertsBSONTypes(t *testing.T) {
	t.Parallel()

	oid := primitive.NewObjectID()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	in := bson.M{
		"_id":    oid,
		"n":      int32(3),
		"big":    int64(4),
		"when":   primitive.NewDateTimeFromTime(at),
		"list":   bson.A{bson.M{"x": int32(1)}, "s"},
		"nested": bson.D{{Key: "k", Value: 2.5}},
	}

	assert.Equal(t, map[string]any{
		"_id":    oid.Hex(),
		"n":      3.0,
		"big":    4.0,
		"when":   "2024-05-01T08:00:00Z",
		"list":   []any{map[string]any{"x": 1.0}, "s"},
		"nested": map[string]any{"k": 2.5},
	}, plain(in))
}
