package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/hotel-staff-service/internal/domain"
	"github.com/spec-kit/hotel-staff-service/internal/persistence"
)

const orphanHashKey = "orphaned_identities"

// OrphanRepository stores identities that were created at the provider
// but never got their profile row. Entries live until an operator
// completes or retires them.
type OrphanRepository interface {
	Record(ctx context.Context, orphan *domain.OrphanedIdentity) error
	Get(ctx context.Context, userID string) (*domain.OrphanedIdentity, error)
	List(ctx context.Context) ([]domain.OrphanedIdentity, error)
	Remove(ctx context.Context, userID string) error
}

type orphanRepository struct {
	client *redis.Client
}

// NewOrphanRepository returns a Redis-backed implementation.
func NewOrphanRepository(store *persistence.Redis) OrphanRepository {
	var client *redis.Client
	if store != nil {
		client = store.Client
	}
	return &orphanRepository{client: client}
}

func (r *orphanRepository) Record(ctx context.Context, orphan *domain.OrphanedIdentity) error {
	if r.client == nil {
		return redis.ErrClosed
	}
	raw, err := json.Marshal(orphan)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, orphanHashKey, orphan.UserID, raw).Err()
}

func (r *orphanRepository) Get(ctx context.Context, userID string) (*domain.OrphanedIdentity, error) {
	if r.client == nil {
		return nil, redis.ErrClosed
	}
	raw, err := r.client.HGet(ctx, orphanHashKey, userID).Result()
	if err != nil {
		return nil, err
	}
	var orphan domain.OrphanedIdentity
	if err := json.Unmarshal([]byte(raw), &orphan); err != nil {
		return nil, err
	}
	return &orphan, nil
}

func (r *orphanRepository) List(ctx context.Context) ([]domain.OrphanedIdentity, error) {
	if r.client == nil {
		return nil, redis.ErrClosed
	}
	entries, err := r.client.HGetAll(ctx, orphanHashKey).Result()
	if err != nil {
		return nil, err
	}
	result := make([]domain.OrphanedIdentity, 0, len(entries))
	for _, raw := range entries {
		var orphan domain.OrphanedIdentity
		if err := json.Unmarshal([]byte(raw), &orphan); err != nil {
			return nil, err
		}
		result = append(result, orphan)
	}
	return result, nil
}

func (r *orphanRepository) Remove(ctx context.Context, userID string) error {
	if r.client == nil {
		return redis.ErrClosed
	}
	return r.client.HDel(ctx, orphanHashKey, userID).Err()
}
