package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	runLockKey   = "ingest:lock"
	latestRunKey = "ingest:runs:latest"
)

// Deletes the lock only while it still belongs to the caller.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunRepoImpl provides a concrete implementation for the RunRepository interface using Redis.
type RunRepoImpl struct {
	client *redis.Client
}

// NewRunRepo creates a new instance of RunRepoImpl.
func NewRunRepo(client *redis.Client) *RunRepoImpl {
	return &RunRepoImpl{client: client}
}

// AcquireLock takes the ingestion lock for owner. It reports false when
// another owner holds it. The TTL frees the lock if its holder dies.
func (r *RunRepoImpl) AcquireLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, runLockKey, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock drops the lock if owner still holds it.
func (r *RunRepoImpl) ReleaseLock(ctx context.Context, owner string) error {
	if err := releaseLockScript.Run(ctx, r.client, []string{runLockKey}, owner).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}

// SaveLatest overwrites the stored summary of the most recent run.
func (r *RunRepoImpl) SaveLatest(ctx context.Context, summary *entity.RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	return r.client.Set(ctx, latestRunKey, payload, 0).Err()
}

// Latest returns the most recent run summary, or repository.ErrNotFound.
func (r *RunRepoImpl) Latest(ctx context.Context) (*entity.RunSummary, error) {
	payload, err := r.client.Get(ctx, latestRunKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var summary entity.RunSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal run summary: %w", err)
	}
	return &summary, nil
}
