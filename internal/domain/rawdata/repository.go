package rawdata

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("raw payload not found")

type Repository interface {
	UpsertMany(ctx context.Context, items []Payload) error
	// Get returns ErrNotFound when nothing is stored under the key.
	Get(ctx context.Context, source, entityType, entityKey string) (Payload, error)
}
