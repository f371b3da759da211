package dropck

import (
	"sync"

	"disjoint/internal/types"
)

const memoShards = 16

// memo is a sharded read-mostly cache keyed by type identity.
type memo[V any] struct {
	shards [memoShards]memoShard[V]
}

type memoShard[V any] struct {
	mu sync.RWMutex
	m  map[types.TypeID]V
}

func newMemo[V any]() *memo[V] {
	mm := &memo[V]{}
	for i := range mm.shards {
		mm.shards[i].m = make(map[types.TypeID]V, 32)
	}
	return mm
}

func (mm *memo[V]) shard(id types.TypeID) *memoShard[V] {
	return &mm.shards[uint32(id)%memoShards]
}

func (mm *memo[V]) get(id types.TypeID) (V, bool) {
	sh := mm.shard(id)
	sh.mu.RLock()
	v, ok := sh.m[id]
	sh.mu.RUnlock()
	return v, ok
}

func (mm *memo[V]) put(id types.TypeID, v V) {
	sh := mm.shard(id)
	sh.mu.Lock()
	sh.m[id] = v
	sh.mu.Unlock()
}

func (mm *memo[V]) len() int {
	n := 0
	for i := range mm.shards {
		sh := &mm.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

// visiting is the per-query set of types currently on the recursion stack.
type visiting map[types.TypeID]struct{}

func (v visiting) enter(id types.TypeID) bool {
	if _, ok := v[id]; ok {
		return false
	}
	v[id] = struct{}{}
	return true
}

func (v visiting) leave(id types.TypeID) {
	delete(v, id)
}
