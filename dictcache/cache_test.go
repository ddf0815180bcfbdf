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

package dictcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vectorsql/colexec/column"
)

func TestGetOrSetIdempotent(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	key := Key{Hash: [16]byte{1}, Size: 3}
	v1 := Entry{FunctionResult: &column.Column{}, IndexMapping: column.IndexMapping{0, 1, 2}}
	v2 := Entry{FunctionResult: &column.Column{}, IndexMapping: column.IndexMapping{9, 9, 9}}

	got1 := c.GetOrSet(key, v1)
	got2 := c.GetOrSet(key, v2)

	require.Equal(t, v1.IndexMapping, got1.IndexMapping)
	require.Equal(t, v1.IndexMapping, got2.IndexMapping, "second GetOrSet must return the first winner, not its own value")
}

func TestGetOrSetRaceSafety(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)
	key := Key{Hash: [16]byte{2}, Size: 1}

	const n = 16
	results := make([]Entry, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrSet(key, Entry{IndexMapping: column.IndexMapping{uint32(i)}})
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Equal(t, results[0].IndexMapping, results[i].IndexMapping, "all callers must observe the same winning entry")
	}
}

func TestCacheCapacityEvictsLRU(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Set(Key{Size: 1}, Entry{})
	c.Set(Key{Size: 2}, Entry{})
	c.Set(Key{Size: 3}, Entry{})

	require.Equal(t, 2, c.Len())
	_, ok := c.Get(Key{Size: 1})
	require.False(t, ok, "oldest entry should have been evicted")
}
