package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"process-resolver/internal/adapters"
	"process-resolver/internal/types"
)

func builtinSet(t *testing.T) types.DefinitionSet {
	t.Helper()
	set, err := adapters.NewBuiltinDefinitionsAdapter().Load("")
	require.NoError(t, err)
	return set
}

func newBuiltinResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	resolver, err := NewResolver(context.Background(), builtinSet(t), opts...)
	require.NoError(t, err)
	return resolver
}

func proc(id string, name string, parent string, aliases ...string) types.ProcessRecord {
	return types.ProcessRecord{
		CanonicalID: id,
		DisplayName: name,
		Parent:      parent,
		Aliases:     aliases,
	}
}

func withCode(record types.ProcessRecord, code string) types.ProcessRecord {
	record.CategoryCode = code
	return record
}

type staticSource struct {
	set types.DefinitionSet
	err error
}

func (s staticSource) Load(location string) (types.DefinitionSet, error) {
	if s.err != nil {
		return types.DefinitionSet{}, s.err
	}
	set := s.set
	if set.Location == "" {
		set.Location = location
	}
	return set, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]types.Resolution
	hits    int
	flushes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]types.Resolution{}}
}

func (c *memoryCache) Get(key string) (types.Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return res, ok
}

func (c *memoryCache) Set(key string, res types.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = res
}

func (c *memoryCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]types.Resolution{}
	c.flushes++
}
