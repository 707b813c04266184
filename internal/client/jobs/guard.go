package jobs

import "sync/atomic"

// ListGuard hands out monotonically increasing ids for list requests so
// that, when several are in flight, only the most recently started one is
// allowed to publish its result. Without it, rapid filter changes let the
// slowest response win and overwrite newer data.
type ListGuard struct {
	latest atomic.Uint64
}

// Begin registers a new list request and returns its id.
func (g *ListGuard) Begin() uint64 {
	return g.latest.Add(1)
}

// Commit reports whether the request with the given id is still the latest
// one; stale responses must be discarded by the caller.
func (g *ListGuard) Commit(id uint64) bool {
	return g.latest.Load() == id
}
