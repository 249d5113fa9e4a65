package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/absmach/fedcoord/pkg/errors"
)

type inMemoryStorage struct {
	sync.RWMutex

	data map[string]any
	keys []string
}

// NewInMemoryStorage returns a process-lifetime Storage backed by a map.
func NewInMemoryStorage() Storage {
	return &inMemoryStorage{
		data: make(map[string]any),
	}
}

func (s *inMemoryStorage) Create(_ context.Context, key string, value any) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; ok {
		return errors.ErrEntityExists
	}

	s.data[key] = value
	i, _ := slices.BinarySearch(s.keys, key)
	s.keys = slices.Insert(s.keys, i, key)

	return nil
}

func (s *inMemoryStorage) Get(_ context.Context, key string) (any, error) {
	if key == "" {
		return nil, errors.ErrEmptyKey
	}

	s.RLock()
	defer s.RUnlock()

	if val, ok := s.data[key]; ok {
		return val, nil
	}

	return nil, errors.ErrNotFound
}

func (s *inMemoryStorage) List(_ context.Context, offset, limit uint64) (result []any, total uint64, err error) {
	s.RLock()
	defer s.RUnlock()

	total = uint64(len(s.keys))
	if offset >= total {
		return []any{}, total, nil
	}

	end := offset + limit
	if end > total || end < offset {
		end = total
	}

	result = make([]any, 0, end-offset)
	for _, k := range s.keys[offset:end] {
		result = append(result, s.data[k])
	}

	return result, total, nil
}
