package ordering

import (
	"sync"
	"time"
)

// idGenerator issues coarse time-derived ids: Unix milliseconds bumped when
// two calls land in the same millisecond. Ids are unique within a process
// and sort in creation order, which is all the stores require.
type idGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *idGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
