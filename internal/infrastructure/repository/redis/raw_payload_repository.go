package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
)

const defaultKeyPrefix = "fantasy_history:raw:"

// RawPayloadRepository keeps one hash per payload:
//
//	{prefix}{source}:{entity_key} -> league_key, week, payload, payload_hash, fetched_at
//
// entity_key already carries the entity type.
type RawPayloadRepository struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRawPayloadRepository stores payloads without expiry when ttl is zero.
func NewRawPayloadRepository(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *RawPayloadRepository {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RawPayloadRepository{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RawPayloadRepository) key(source, entityKey string) string {
	return r.prefix + source + ":" + entityKey
}

func (r *RawPayloadRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	pipe := r.rdb.TxPipeline()
	for _, item := range items {
		fetchedAt := ""
		if item.FetchedAt != nil {
			fetchedAt = item.FetchedAt.UTC().Format(time.RFC3339Nano)
		}
		key := r.key(item.Source, item.EntityKey)
		pipe.HSet(ctx, key, map[string]any{
			"entity_type":  item.EntityType,
			"league_key":   item.LeagueKey,
			"week":         strconv.Itoa(item.Week),
			"payload":      item.PayloadJSON,
			"payload_hash": item.PayloadHash,
			"fetched_at":   fetchedAt,
		})
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: upsert %d raw payloads: %w", len(items), err)
	}
	return nil
}

func (r *RawPayloadRepository) Get(ctx context.Context, source, entityType, entityKey string) (rawdata.Payload, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key(source, entityKey)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return rawdata.Payload{}, rawdata.ErrNotFound
		}
		return rawdata.Payload{}, fmt.Errorf("redis: get raw payload %s: %w", entityKey, err)
	}
	if len(fields) == 0 || fields["entity_type"] != entityType {
		return rawdata.Payload{}, rawdata.ErrNotFound
	}

	item := rawdata.Payload{
		Source:      source,
		EntityType:  entityType,
		EntityKey:   entityKey,
		LeagueKey:   fields["league_key"],
		PayloadJSON: fields["payload"],
		PayloadHash: fields["payload_hash"],
	}
	if week, err := strconv.Atoi(fields["week"]); err == nil {
		item.Week = week
	}
	if raw := fields["fetched_at"]; raw != "" {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			item.FetchedAt = &at
		}
	}
	return item, nil
}
