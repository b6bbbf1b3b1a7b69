package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"camino_routes/internal/editor"
	"camino_routes/internal/trail"
)

var ErrDraftNotFound = errors.New("draft not found")

const keyPrefix = "draft:"

// Store keeps drafts in Redis as JSON. Every save refreshes the TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

// Create starts a new draft from route under a fresh id.
func (s *Store) Create(ctx context.Context, route trail.Route) (*editor.Draft, error) {
	d := editor.NewDraft(uuid.NewString(), route)
	d.UpdatedAt = time.Now().UTC()
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	logrus.WithField("draft_id", d.ID).Debug("Draft created")
	return d, nil
}

// Get loads a draft. A missing or expired draft is ErrDraftNotFound.
func (s *Store) Get(ctx context.Context, id string) (*editor.Draft, error) {
	b, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", id, ErrDraftNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}
	var d editor.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	d.Route.Fill()
	return &d, nil
}

func (s *Store) Save(ctx context.Context, d *editor.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}
	if err := s.client.Set(ctx, key(d.ID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrDraftNotFound)
	}
	return nil
}
