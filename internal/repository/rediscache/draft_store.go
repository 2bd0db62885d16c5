// Package rediscache implements the ephemeral draft store on redis.
// One entry per partner, last-write-wins, expiring after the configured TTL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"classlisting/internal/domain"
)

const draftKeyPrefix = "listing_draft:"

type draftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore returns a DraftStore backed by the given redis client.
// A non-positive ttl means entries never expire.
func NewDraftStore(client *redis.Client, ttl time.Duration) domain.DraftStore {
	return &draftStore{client: client, ttl: ttl}
}

func draftKey(partnerID string) string {
	return draftKeyPrefix + partnerID
}

func encodeSnapshot(snap *domain.DraftSnapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func decodeSnapshot(data []byte) (*domain.DraftSnapshot, error) {
	var snap domain.DraftSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *draftStore) Save(ctx context.Context, partnerID string, snap *domain.DraftSnapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to encode draft snapshot: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(partnerID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *draftStore) Load(ctx context.Context, partnerID string) (*domain.DraftSnapshot, error) {
	data, err := s.client.Get(ctx, draftKey(partnerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		// A corrupt entry is dropped so the next open starts fresh.
		_ = s.client.Del(ctx, draftKey(partnerID)).Err()
		return nil, fmt.Errorf("failed to decode cached draft: %w", err)
	}
	return snap, nil
}

func (s *draftStore) Clear(ctx context.Context, partnerID string) error {
	if err := s.client.Del(ctx, draftKey(partnerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
