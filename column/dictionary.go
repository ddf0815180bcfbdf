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

package column

import (
	"fmt"
	"sync"

	"github.com/zeebo/xxh3"
)

// Dictionary is the distinct-values side of a dictionary-encoded column.
// The hash is computed lazily and cached, matching spec.md §3 ("Hash is
// computed by the dictionary itself, lazily, and cached for its lifetime").
type Dictionary struct {
	Values Column

	hashOnce sync.Once
	hashVal  [16]byte
}

func NewDictionary(values Column) *Dictionary {
	return &Dictionary{Values: values}
}

func (d *Dictionary) Size() int { return d.Values.Len }

// Hash returns the dictionary's identity hash, used as half of a
// dictcache.Key. Two Dictionary instances with equal Values produce equal
// hashes; this is the cache's notion of "same dictionary".
func (d *Dictionary) Hash() [16]byte {
	d.hashOnce.Do(func() {
		h := xxh3.Hash128(serializeForHash(d.Values))
		d.hashVal = h.Bytes()
	})
	return d.hashVal
}

// serializeForHash produces a deterministic byte stream for a column's
// values. It does not need to be compact or reversible, only stable: equal
// columns must serialize identically.
func serializeForHash(c Column) []byte {
	buf := make([]byte, 0, c.Len*8)
	appendColumnBytes(&buf, c)
	return buf
}

func appendColumnBytes(buf *[]byte, c Column) {
	switch c.Kind {
	case ColPlain:
		for _, v := range c.Values {
			*buf = append(*buf, []byte(fmt.Sprintf("%T:%v|", v, v))...)
		}
	case ColConst:
		appendColumnBytes(buf, *c.Inner)
		*buf = append(*buf, byte(c.Len), byte(c.Len>>8), byte(c.Len>>16), byte(c.Len>>24))
	case ColNullable:
		for i := 0; i < c.Len; i++ {
			if c.Nulls.Get(i) {
				*buf = append(*buf, 0)
			} else {
				*buf = append(*buf, 1)
			}
		}
		appendColumnBytes(buf, *c.ValuesCol)
	case ColArray:
		for _, off := range c.Offsets {
			*buf = append(*buf, byte(off), byte(off>>8), byte(off>>16), byte(off>>24))
		}
		appendColumnBytes(buf, *c.Elems)
	case ColTuple:
		for _, f := range c.FieldsCol {
			appendColumnBytes(buf, f)
		}
	case ColDict:
		appendColumnBytes(buf, Materialize(c))
	}
}
