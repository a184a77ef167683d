package lod

import (
	"context"

	"github.com/lod-project/lod/driver"
)

// SubjectHandle is the opaque object C7 returns: a reference to the
// Context, a triple-pattern query of the form (subject=N, predicate=*,
// object=*), and the subject node N itself (spec §3).
//
// Destroying a handle does not remove triples from the model; a later
// Locate for the same URI still succeeds.
type SubjectHandle struct {
	ctx     *Context
	subject driver.Node
}

func newSubjectHandle(c *Context, subject driver.Node) *SubjectHandle {
	return &SubjectHandle{ctx: c, subject: subject}
}

// URI returns the handle's subject node value.
func (h *SubjectHandle) URI() string { return h.subject.Value }

// Node returns the handle's subject node.
func (h *SubjectHandle) Node() driver.Node { return h.subject }

// Exists reports whether the model still holds any triple about this
// subject. It re-queries the model rather than caching the answer from
// construction time.
func (h *SubjectHandle) Exists(ctx context.Context) (bool, error) {
	return h.ctx.model.Exists(ctx, driver.SubjectPattern(h.subject))
}

// Triples returns an iterator over every triple in the model whose subject
// is this handle's node. The caller must Close it.
func (h *SubjectHandle) Triples(ctx context.Context) (driver.TripleIter, error) {
	return h.ctx.model.Find(ctx, driver.SubjectPattern(h.subject))
}

// Destroy releases the handle. It does not touch the model (spec §3).
func (h *SubjectHandle) Destroy() {
	h.ctx = nil
}
