package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	basecache "github.com/riskibarqy/fantasy-league-history/internal/platform/cache"
)

// RawPayloadRepository is a read-through cache over another raw payload store.
// Misses are cached too, so replay of an incomplete archive does not hammer the backend.
type RawPayloadRepository struct {
	next  rawdata.Repository
	cache *basecache.Store[cachedPayload]
}

type cachedPayload struct {
	value  rawdata.Payload
	exists bool
}

func NewRawPayloadRepository(next rawdata.Repository, ttl time.Duration) *RawPayloadRepository {
	return &RawPayloadRepository{next: next, cache: basecache.NewStore[cachedPayload](ttl)}
}

func (r *RawPayloadRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	for _, item := range items {
		r.cache.Delete(ctx, payloadKey(item.Source, item.EntityType, item.EntityKey))
	}
	return nil
}

func (r *RawPayloadRepository) Get(ctx context.Context, source, entityType, entityKey string) (rawdata.Payload, error) {
	cached, _, err := r.cache.GetOrLoad(ctx, payloadKey(source, entityType, entityKey), func(ctx context.Context) (cachedPayload, error) {
		item, err := r.next.Get(ctx, source, entityType, entityKey)
		if err != nil {
			if errors.Is(err, rawdata.ErrNotFound) {
				return cachedPayload{}, nil
			}
			return cachedPayload{}, err
		}
		return cachedPayload{value: item, exists: true}, nil
	})
	if err != nil {
		return rawdata.Payload{}, err
	}
	if !cached.exists {
		return rawdata.Payload{}, rawdata.ErrNotFound
	}
	return cached.value, nil
}

func payloadKey(source, entityType, entityKey string) string {
	return "raw:" + source + ":" + entityType + ":" + entityKey
}
