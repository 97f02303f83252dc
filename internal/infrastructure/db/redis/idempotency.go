package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore caches analysis results keyed by account and client key.
// Key format: idem:analyze:<account_id>:<idempotency_key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

type idempotencyEntry struct {
	Fingerprint string                `json:"fingerprint"`
	Result      domain.AnalysisResult `json:"result"`
}

// Lookup returns the result stored for (accountID, key). An entry saved for
// different text is reported as a miss.
func (s *IdempotencyStore) Lookup(ctx context.Context, accountID, key, fingerprint string) (*domain.AnalysisResult, bool, error) {
	raw, err := s.client.Get(ctx, s.key(accountID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("idempotency lookup: %w", err)
	}

	var entry idempotencyEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("idempotency decode: %w", err)
	}
	if entry.Fingerprint != fingerprint {
		return nil, false, nil
	}
	return &entry.Result, true, nil
}

// Save records result for (accountID, key); it expires after the store TTL.
// An existing entry is kept so the first result wins.
func (s *IdempotencyStore) Save(ctx context.Context, accountID, key, fingerprint string, result domain.AnalysisResult) error {
	raw, err := json.Marshal(idempotencyEntry{Fingerprint: fingerprint, Result: result})
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.SetNX(ctx, s.key(accountID, key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(accountID, key string) string {
	return fmt.Sprintf("idem:analyze:%s:%s", accountID, key)
}
