// Package slots manages call-scoped argument slot buffers. A buffer is
// exclusively owned by a single in-flight foreign call: acquired immediately
// before the call, sized exactly to the argument count, and released on every
// exit path, including early failure during marshalling.
package slots

import (
	"sync"

	"github.com/madeye/jbind/domain/ports"
)

var pool = sync.Pool{
	New: func() any { return &Buffer{} },
}

// Buffer holds the argument slots for one call. Contents must not be touched
// after Release.
type Buffer struct {
	Values []ports.Value
}

// Acquire returns a zeroed buffer with exactly n slots.
func Acquire(n int) *Buffer {
	b := pool.Get().(*Buffer)
	if cap(b.Values) < n {
		b.Values = make([]ports.Value, n)
	} else {
		b.Values = b.Values[:n]
		for i := range b.Values {
			b.Values[i] = ports.Value{}
		}
	}
	return b
}

// Release returns the buffer to the pool. Slots are cleared first so a pooled
// buffer never pins a foreign reference past its call.
func (b *Buffer) Release() {
	for i := range b.Values {
		b.Values[i] = ports.Value{}
	}
	b.Values = b.Values[:0]
	pool.Put(b)
}
