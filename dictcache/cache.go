// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dictcache implements the dictionary result cache (C7): a
// capacity-bounded, LRU-evicting cache keyed on dictionary identity that
// lets dictionary peeling (C6) skip re-running a function against a
// dictionary it has already seen. The generic LRU bookkeeping itself is an
// external collaborator (spec.md §1); this package wraps a real one rather
// than reimplementing eviction order.
package dictcache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vectorsql/colexec/column"
)

// Key identifies a dictionary by its content hash and size, matching
// spec.md §3's DictionaryKey{hash, size}. Size guards against the (remote)
// case of a hash collision between same-hash, different-length
// dictionaries.
type Key struct {
	Hash [16]byte
	Size uint64
}

// Entry is what C6 stores per dictionary: the dictionary it ran against
// (held for as long as the entry is cached), the function's
// result dictionary, and the mapping from the original dictionary's
// positions to the result dictionary's positions.
type Entry struct {
	DictionaryHolder *column.Dictionary
	FunctionResult   *column.Column
	IndexMapping     column.IndexMapping
}

// Cache wraps a fixed-capacity LRU container behind a mutex so GetOrSet is
// a single atomic operation: two callers racing to populate the same key
// never both win, matching spec.md §5's "exactly one caller's result wins
// and is visible to all losers" requirement.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[Key, Entry]
}

// New returns a Cache holding at most capacity entries.
func New(capacity int) (*Cache, error) {
	l, err := lru.New[Key, Entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get looks up key without affecting eviction order beyond the LRU
// container's own recency bookkeeping.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Set unconditionally stores entry under key, overwriting any prior value.
func (c *Cache) Set(key Key, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry)
}

// GetOrSet returns the entry already stored under key if present;
// otherwise it stores entry and returns it. The whole check-then-store
// happens under the cache's lock, so concurrent GetOrSet calls racing on a
// fresh key all observe the same winning entry (spec.md §8, idempotence
// and race-safety properties).
func (c *Cache) GetOrSet(key Key, entry Entry) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.lru.Get(key); ok {
		return existing
	}
	c.lru.Add(key, entry)
	return entry
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
