package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fantasy-league-history/internal/config"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	cacherepo "github.com/riskibarqy/fantasy-league-history/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-league-history/internal/infrastructure/repository/memory"
	postgresrepo "github.com/riskibarqy/fantasy-league-history/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/fantasy-league-history/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbMaxOpenConns = 10
	dbMaxIdleConns = 5

	// raw_payloads upserts carry whole JSON documents; spans keep a prefix.
	maxTracedQueryLength = 512
)

type rawStore struct {
	repo  rawdata.Repository
	close func()
}

func newRawStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (rawStore, error) {
	switch cfg.RawStoreBackend {
	case config.RawStoreMemory:
		return rawStore{repo: memory.NewRawPayloadRepository(), close: func() {}}, nil
	case config.RawStorePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return rawStore{}, err
		}
		return rawStore{
			repo: wrapRawCache(cfg, postgresrepo.NewRawPayloadRepository(db)),
			close: func() {
				if err := db.Close(); err != nil {
					logger.Warn("close postgres failed", "error", err)
				}
			},
		}, nil
	case config.RawStoreRedis:
		rdb, err := redisrepo.NewClient(ctx, redisrepo.ClientConfig{
			URL:      cfg.RedisURL,
			PoolSize: cfg.RedisPoolSize,
		})
		if err != nil {
			return rawStore{}, fmt.Errorf("connect redis: %w", err)
		}
		return rawStore{
			repo: wrapRawCache(cfg, redisrepo.NewRawPayloadRepository(rdb, cfg.RedisKeyPrefix, 0)),
			close: func() {
				if err := rdb.Close(); err != nil {
					logger.Warn("close redis failed", "error", err)
				}
			},
		}, nil
	default:
		return rawStore{close: func() {}}, nil
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn, dbName := postgresDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// postgresDSN turns on disable_prepared_binary_result for URL style DSNs
// unless the URL sets it already, and reports the database name for spans.
// Key/value DSNs are passed through untouched.
func postgresDSN(raw string, disablePreparedBinary bool) (string, string) {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw, keyValueDBName(raw)
	}

	dbName := strings.Trim(parsed.Path, "/ ")
	if !disablePreparedBinary {
		return raw, dbName
	}
	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw, dbName
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String(), dbName
}

func keyValueDBName(dsn string) string {
	for _, field := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// traceQuery collapses whitespace so multi-line SQL reads as one span
// attribute.
func traceQuery(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	if len(collapsed) > maxTracedQueryLength {
		return collapsed[:maxTracedQueryLength] + "..."
	}
	return collapsed
}

// wrapRawCache puts a read-through cache in front of remote raw stores so
// replay runs do not hit the backend once per request.
func wrapRawCache(cfg config.Config, repo rawdata.Repository) rawdata.Repository {
	if !cfg.CacheEnabled {
		return repo
	}
	return cacherepo.NewRawPayloadRepository(repo, cfg.CacheTTL)
}
