package gf

import "sync"

type fieldKey struct {
	m    int
	poly uint32
}

type fieldEntry struct {
	once  sync.Once
	field *Field
	err   error
}

var (
	cacheMu sync.Mutex
	cache   = make(map[fieldKey]*fieldEntry)
)

// Cached returns a shared Field for (m, poly), building the tables on first
// use. Concurrent callers asking for the same field wait for a single
// construction; afterwards lookups only take the map lock.
func Cached(m int, poly uint32) (*Field, error) {
	key := fieldKey{m: m, poly: poly}

	cacheMu.Lock()
	e, ok := cache[key]
	if !ok {
		e = &fieldEntry{}
		cache[key] = e
	}
	cacheMu.Unlock()

	e.once.Do(func() {
		e.field, e.err = New(m, poly)
	})
	return e.field, e.err
}
