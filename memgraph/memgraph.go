// Package memgraph implements the default [driver.Model]: an in-process
// triple store with no persistence across runs, matching the core's
// Non-goals around cross-process storage.
package memgraph

import (
	"context"
	"sync"

	"github.com/lod-project/lod/driver"
)

// Graph is the default [driver.Model]. The zero value is ready to use.
type Graph struct {
	mu      sync.RWMutex
	triples []driver.Triple
}

var _ driver.Model = (*Graph)(nil)

// New returns an empty Graph.
func New() *Graph {
	return &Graph{}
}

// AddTriples implements [driver.Model]. Exact duplicates (by value) are
// silently deduplicated, since a resolution session may touch the same
// subject in more than one document.
func (g *Graph) AddTriples(_ context.Context, ts []driver.Triple) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range ts {
		if !g.containsLocked(t) {
			g.triples = append(g.triples, t)
		}
	}
	return nil
}

func (g *Graph) containsLocked(t driver.Triple) bool {
	for _, o := range g.triples {
		if o.Subject.Equal(t.Subject) && o.Predicate.Equal(t.Predicate) && o.Object.Equal(t.Object) {
			return true
		}
	}
	return false
}

// Find implements [driver.Model]. The returned iterator holds a snapshot
// taken under read lock; later writes to g do not affect it.
func (g *Graph) Find(_ context.Context, pat driver.Pattern) (driver.TripleIter, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var matches []driver.Triple
	for _, t := range g.triples {
		if matches1(pat, t) {
			matches = append(matches, t)
		}
	}
	return &iter{triples: matches, idx: -1}, nil
}

// Exists implements [driver.Model].
func (g *Graph) Exists(_ context.Context, pat driver.Pattern) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, t := range g.triples {
		if matches1(pat, t) {
			return true, nil
		}
	}
	return false, nil
}

func matches1(pat driver.Pattern, t driver.Triple) bool {
	if pat.Subject != nil && !pat.Subject.Equal(t.Subject) {
		return false
	}
	if pat.Predicate != nil && !pat.Predicate.Equal(t.Predicate) {
		return false
	}
	if pat.Object != nil && !pat.Object.Equal(t.Object) {
		return false
	}
	return true
}

type iter struct {
	triples []driver.Triple
	idx     int
}

var _ driver.TripleIter = (*iter)(nil)

func (it *iter) Next() bool {
	if it.idx+1 >= len(it.triples) {
		return false
	}
	it.idx++
	return true
}

func (it *iter) Triple() driver.Triple { return it.triples[it.idx] }
func (it *iter) Err() error            { return nil }
func (it *iter) Close() error          { return nil }
