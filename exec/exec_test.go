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

package exec

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorsql/colexec/column"
	"github.com/vectorsql/colexec/examples/strfuncs"
	"github.com/vectorsql/colexec/funcapi"
)

func stringCol(vals ...string) column.Column {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return column.NewPlain(column.Ground("String"), out)
}

func u64Col(vals ...uint64) column.Column {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return column.NewPlain(column.Ground("UInt64"), out)
}

func dictColOf(values column.Column, indices []uint32, shared bool) column.Column {
	return column.NewDict(column.NewDictionary(values), indices, shared)
}

// runNoT executes fn against args, inferring the declared result type the
// way a planner would before calling Execute, and returns the result
// column. It reports errors via a plain return so it is safe to call from
// any goroutine, unlike a *testing.T-based helper.
func runNoT(w *Wrapper, fn funcapi.Function, args []column.Column) (column.Column, error) {
	descrs := make([]funcapi.ArgDescr, len(args))
	for i, a := range args {
		descrs[i] = funcapi.ArgDescr{Type: a.Typ, Const: column.IsConstant(a)}
	}
	resultType, err := ReturnType(fn, descrs)
	if err != nil {
		return column.Column{}, err
	}

	batch := &funcapi.Batch{}
	argSlots := make([]int, len(args))
	rows := 0
	for i, a := range args {
		argSlots[i] = batch.AppendSlot(funcapi.Slot{Column: a, Type: a.Typ})
		if a.Len > rows {
			rows = a.Len
		}
	}
	batch.Rows = rows
	resultSlot := batch.AppendSlot(funcapi.Slot{Type: resultType})

	if err := w.Execute(fn, batch, argSlots, resultSlot); err != nil {
		return column.Column{}, err
	}
	return batch.Slots[resultSlot].Column, nil
}

// run is runNoT for the common case of a single test goroutine, failing
// the test immediately on error.
func run(t *testing.T, w *Wrapper, fn funcapi.Function, args []column.Column) column.Column {
	t.Helper()
	result, err := runNoT(w, fn, args)
	require.NoError(t, err)
	return result
}

func newWrapper(t *testing.T, capacity int) *Wrapper {
	t.Helper()
	w, err := NewWrapper(capacity)
	require.NoError(t, err)
	return w
}

// S1: encoding transparency — a plain argument passes through every peel
// layer untouched, and the function's result comes back as a plain column.
func TestS1_EncodingTransparency(t *testing.T) {
	w := newWrapper(t, 0)
	plain := run(t, w, strfuncs.NewUpper(), []column.Column{stringCol("ab", "cd")})
	require.Equal(t, column.ColPlain, plain.Kind)
	assert.Equal(t, []any{"AB", "CD"}, plain.Values)
}

// S2: an only-null nullable argument short-circuits to a constant NULL of
// the declared result type and the caller's row count.
func TestS2_OnlyNullShortCircuit(t *testing.T) {
	w := newWrapper(t, 0)
	onlyNull := column.NewConstNull(column.OnlyNullType(), 4)

	result := run(t, w, strfuncs.NewLength(), []column.Column{onlyNull})

	require.Equal(t, column.ColConst, result.Kind)
	require.Equal(t, 4, result.Len)
	require.True(t, result.Typ.IsNullable())
	require.Equal(t, column.ColNullable, result.Inner.Kind)
	assert.True(t, result.Inner.Nulls.Get(0))
}

// S3: when every argument is constant, the function runs once and the
// result is rewrapped as a constant of the original row count.
func TestS3_ConstantShortCircuit(t *testing.T) {
	w := newWrapper(t, 0)
	two := column.NewConst(column.NewPlain(column.Ground("UInt64"), []any{uint64(2)}), 5)
	three := column.NewConst(column.NewPlain(column.Ground("UInt64"), []any{uint64(3)}), 5)

	result := run(t, w, strfuncs.NewAdd(), []column.Column{two, three})

	require.Equal(t, column.ColConst, result.Kind)
	require.Equal(t, 5, result.Len)
	assert.Equal(t, uint64(5), result.Inner.Values[0])
}

// S4: dictionary peeling on a shared dictionary populates the cache on the
// first call and reuses the cached result dictionary on a second call
// against the same dictionary.
func TestS4_DictionaryPeelAndCacheHit(t *testing.T) {
	w := newWrapper(t, 16)
	dict := stringCol("a", "b", "c")
	indices := []uint32{0, 1, 0, 2, 1}

	arg := dictColOf(dict, indices, true)
	result := run(t, w, strfuncs.NewUpper(), []column.Column{arg})

	require.Equal(t, column.ColDict, result.Kind)
	assert.Equal(t, []any{"A", "B", "C"}, result.Dict.Values.Values)
	assert.Equal(t, []uint32{0, 1, 0, 2, 1}, result.Indices)
	require.Equal(t, 1, w.cache.Len())

	arg2 := dictColOf(dict, indices, true)
	result2 := run(t, w, strfuncs.NewUpper(), []column.Column{arg2})
	assert.Equal(t, []any{"A", "B", "C"}, result2.Dict.Values.Values)
	assert.Equal(t, []uint32{0, 1, 0, 2, 1}, result2.Indices)
	assert.Equal(t, 1, w.cache.Len())
}

// S5: the function's result is deduplicated via unique_insert_range even
// when the dictionary itself had no duplicate distinct values.
func TestS5_UniqueInsertRangeDedup(t *testing.T) {
	w := newWrapper(t, 16)
	dict := stringCol("", "a", "b")
	indices := []uint32{0, 1, 2, 0}

	arg := dictColOf(dict, indices, true)
	result := run(t, w, strfuncs.NewIsEmpty(), []column.Column{arg})

	require.Equal(t, column.ColDict, result.Kind)
	assert.Equal(t, []any{true, false}, result.Dict.Values.Values)
	assert.Equal(t, []uint32{0, 1, 1, 0}, result.Indices)
}

// nonDefaultUpper behaves like strfuncs.Upper but cannot run over a
// dictionary's full set of distinct values, forcing C6's minimal
// dictionary encoding path.
type nonDefaultUpper struct{ strfuncs.Upper }

func (nonDefaultUpper) CanBeExecutedOnDefaultArguments() bool { return false }

// S6: when the function cannot run on default arguments, C6 builds a
// minimal dictionary of only the referenced rows before calling it.
func TestS6_MinimalDictionaryEncoding(t *testing.T) {
	w := newWrapper(t, 0)
	dict := stringCol("x", "y", "z")
	indices := []uint32{1, 2, 2}

	arg := dictColOf(dict, indices, true)
	result := run(t, w, nonDefaultUpper{strfuncs.NewUpper()}, []column.Column{arg})

	require.Equal(t, column.ColDict, result.Kind)
	assert.Equal(t, []any{"Y", "Z"}, result.Dict.Values.Values)
	assert.Equal(t, []uint32{0, 1, 1}, result.Indices)
}

// Property: null propagation. A nullable argument's per-row nullness
// determines the result's per-row nullness.
func TestProperty_NullPropagation(t *testing.T) {
	w := newWrapper(t, 0)
	values := stringCol("ab", "cd", "ef")
	nulls := column.NewBitmap(3)
	nulls.Set(1, true)
	arg := column.NewNullable(values, nulls)

	result := run(t, w, strfuncs.NewLength(), []column.Column{arg})

	require.Equal(t, column.ColNullable, result.Kind)
	assert.False(t, result.Nulls.Get(0))
	assert.True(t, result.Nulls.Get(1))
	assert.False(t, result.Nulls.Get(2))
	assert.Equal(t, uint64(2), result.ValuesCol.Values[0])
}

// Property: cache idempotence. Eight concurrent executions against the same
// shared dictionary, racing to populate a fresh cache key, all produce the
// same result dictionary and indices.
func TestProperty_CacheIdempotence(t *testing.T) {
	w := newWrapper(t, 16)
	dict := stringCol("a", "b")
	indices := []uint32{0, 1, 0}

	const n = 8
	results := make([]column.Column, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			arg := dictColOf(dict, indices, true)
			results[i], errs[i] = runNoT(w, strfuncs.NewUpper(), []column.Column{arg})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}

	for i := 1; i < n; i++ {
		assert.Equal(t, results[0].Dict.Values.Values, results[i].Dict.Values.Values)
		assert.Equal(t, results[0].Indices, results[i].Indices)
	}
}
