package storage

import "context"

// Storage is an append-only keyed store. List returns entries in ascending
// key order.
type Storage interface {
	Create(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string) (any, error)
	List(ctx context.Context, offset, limit uint64) ([]any, uint64, error)
}
