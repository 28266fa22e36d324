// Package rediscache provides the Redis-backed durable snapshot store used
// by the planning session cache to seed the library list across restarts.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/studyloop/planner-api/internal/store"
)

// SnapshotStore implements store.SnapshotStore on a Redis string key.
type SnapshotStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewSnapshotStore connects to Redis at the given address and verifies
// connectivity with a ping. If logger is nil, a default logger will be used.
func NewSnapshotStore(addr, password string, logger *slog.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SnapshotStore{
		client: client,
		logger: logger.With(slog.String("component", "snapshot_store")),
	}, nil
}

// Ensure SnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*SnapshotStore)(nil)

// Get implements store.SnapshotStore.Get.
// Returns store.ErrSnapshotNotFound when the key does not exist.
func (s *SnapshotStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrSnapshotNotFound
		}
		s.logger.Error("failed to read snapshot",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return "", err
	}
	return value, nil
}

// Set implements store.SnapshotStore.Set.
// Snapshots are stored without expiry; each write replaces the previous one.
func (s *SnapshotStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Error("failed to write snapshot",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return err
	}
	return nil
}

// Close closes the Redis connection.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
