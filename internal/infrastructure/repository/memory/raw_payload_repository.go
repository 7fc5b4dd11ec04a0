package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
)

type RawPayloadRepository struct {
	mu    sync.RWMutex
	items map[string]rawdata.Payload
}

func NewRawPayloadRepository(seed ...rawdata.Payload) *RawPayloadRepository {
	r := &RawPayloadRepository{items: make(map[string]rawdata.Payload, len(seed))}
	for _, item := range seed {
		r.items[rawPayloadKey(item.Source, item.EntityType, item.EntityKey)] = item
	}
	return r
}

func (r *RawPayloadRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[rawPayloadKey(item.Source, item.EntityType, item.EntityKey)] = item
	}
	return nil
}

func (r *RawPayloadRepository) Get(_ context.Context, source, entityType, entityKey string) (rawdata.Payload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[rawPayloadKey(source, entityType, entityKey)]
	if !ok {
		return rawdata.Payload{}, rawdata.ErrNotFound
	}
	return item, nil
}

func (r *RawPayloadRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func rawPayloadKey(source, entityType, entityKey string) string {
	return source + "|" + entityType + "|" + entityKey
}
