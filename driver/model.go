package driver

import "context"

// Model is the opaque RDF graph the core accumulates triples into and
// queries out of. It is the only interface the teacher's "RDF triple store"
// collaborator needs to satisfy, per spec §1: add triples, find triples with
// a subject filter, and test whether such a result is non-empty.
//
// Implementations must be safe for use by one Context at a time; the core's
// scheduling model is single-threaded cooperative (spec §5), so Model itself
// need not be safe for concurrent callers unless the implementation is also
// shared across Contexts.
type Model interface {
	// AddTriples merges ts into the graph. Duplicate triples are not an
	// error; implementations may deduplicate or not.
	AddTriples(ctx context.Context, ts []Triple) error
	// Find returns every triple matching pat, in implementation-defined
	// order. The returned TripleIter must be closed by the caller.
	Find(ctx context.Context, pat Pattern) (TripleIter, error)
	// Exists reports whether Find(ctx, pat) would yield at least one
	// triple, without requiring the caller to drive an iterator.
	Exists(ctx context.Context, pat Pattern) (bool, error)
}

// TripleIter streams the results of a Model query.
//
// Usage mirrors [database/sql.Rows]: call Next until it reports false, then
// check Err, and always Close.
type TripleIter interface {
	Next() bool
	Triple() Triple
	Err() error
	Close() error
}
