package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

const (
	EntityLeague     = "league"
	EntityStandings  = "standings"
	EntityScoreboard = "scoreboard"
)

// Payload is one provider response kept verbatim.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	LeagueKey   string
	Week        int
	PayloadJSON string
	PayloadHash string
	FetchedAt   *time.Time
}

// EntityKeyFor builds the lookup key for one league-level or week-level payload.
func EntityKeyFor(entityType, leagueKey string, week int) string {
	if week > 0 {
		return entityType + ":" + leagueKey + ":" + strconv.Itoa(week)
	}
	return entityType + ":" + leagueKey
}

func NewPayload(source, entityType, leagueKey string, week int, raw []byte, fetchedAt time.Time) Payload {
	return Payload{
		Source:      source,
		EntityType:  entityType,
		EntityKey:   EntityKeyFor(entityType, leagueKey, week),
		LeagueKey:   leagueKey,
		Week:        week,
		PayloadJSON: string(raw),
		PayloadHash: Hash(raw),
		FetchedAt:   &fetchedAt,
	}
}

func Hash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
