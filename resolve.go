package lod

import (
	"context"

	"github.com/lod-project/lod/driver"
)

// FetchFlags selects resolve's network policy and optional indirection,
// mirroring the C bitfield in spec §6.
type FetchFlags uint

const (
	// FetchNever is equivalent to Locate: never touch the network.
	FetchNever FetchFlags = 1 << iota
	// FetchAbsent touches the network only if the subject is absent from
	// the model; equivalent to Resolve's historical default.
	FetchAbsent
	// FetchAlways is equivalent to Fetch: always touch the network.
	FetchAlways
)

// FetchPrimaryTopic additionally re-indirects through foaf:primaryTopic
// after a subject is found (spec §4.7). It composes with any of the three
// network-policy bits above.
const FetchPrimaryTopic FetchFlags = 1 << 12

// preamble is the shared setup for Locate/Fetch/Resolve (spec §4.7): the
// input URI is duplicated defensively (it may point into the context's own
// state), the context is reset, and context.subject is set to the
// duplicate.
func (c *Context) preamble(uri string) string {
	dup := string([]byte(uri)) // defensive copy, per spec §9
	c.reset()
	c.subject = dup
	return dup
}

// Locate implements C7's locate entry point: it tests whether uri already
// has any triples in the model, performing no network I/O. A nil handle
// with a nil error means "absent" (spec §7 item 8).
func (c *Context) Locate(ctx context.Context, uri string) (*SubjectHandle, error) {
	ctx = c.logCtx(ctx, "lod/Context.Locate")
	dup := c.preamble(uri)
	return c.testSubject(ctx, dup)
}

// Fetch implements C7's fetch entry point: it unconditionally runs the
// fetch loop, then searches the resulting subject chain for a match.
func (c *Context) Fetch(ctx context.Context, uri string) (*SubjectHandle, error) {
	return c.resolve(ctx, uri, false)
}

// Resolve implements C7's resolve entry point: flags select whether the
// network is touched never, only if absent, or always, and whether a
// successful match is re-indirected through foaf:primaryTopic.
func (c *Context) Resolve(ctx context.Context, uri string, flags FetchFlags) (*SubjectHandle, error) {
	primary := flags&FetchPrimaryTopic != 0
	switch {
	case flags&FetchNever != 0:
		ctx = c.logCtx(ctx, "lod/Context.Resolve")
		dup := c.preamble(uri)
		h, err := c.testSubject(ctx, dup)
		if err != nil || h == nil {
			return h, err
		}
		if primary {
			return c.indirectPrimaryTopic(ctx, h)
		}
		return h, nil
	case flags&FetchAlways != 0:
		return c.resolve(ctx, uri, primary)
	case flags&FetchAbsent != 0:
		return c.resolveAbsent(ctx, uri, primary)
	default:
		err := &Error{Kind: ErrInvalid, Message: "resolve: flags must select a network policy"}
		c.setErr(err)
		return nil, err
	}
}

// resolveAbsent is FetchAbsent's policy: check the model first, and only
// run the fetch loop if the subject is absent.
func (c *Context) resolveAbsent(ctx context.Context, uri string, primary bool) (*SubjectHandle, error) {
	ctx = c.logCtx(ctx, "lod/Context.Resolve")
	dup := c.preamble(uri)
	h, err := c.testSubject(ctx, dup)
	if err != nil {
		return nil, err
	}
	if h != nil {
		if primary {
			return c.indirectPrimaryTopic(ctx, h)
		}
		return h, nil
	}
	return c.fetchAndLocate(ctx, dup, primary)
}

// resolve is Fetch's policy (always touch the network), shared by
// FetchAlways.
func (c *Context) resolve(ctx context.Context, uri string, primary bool) (*SubjectHandle, error) {
	ctx = c.logCtx(ctx, "lod/Context.Fetch")
	dup := c.preamble(uri)
	return c.fetchAndLocate(ctx, dup, primary)
}

func (c *Context) fetchAndLocate(ctx context.Context, dup string, primary bool) (*SubjectHandle, error) {
	if err := c.fetchLoop(ctx, dup); err != nil {
		return nil, err
	}
	h, err := c.locateSubjectInChain(ctx)
	if err != nil || h == nil || !primary {
		return h, err
	}
	return c.indirectPrimaryTopic(ctx, h)
}

// testSubject builds the pattern query for uri and returns a handle if the
// model has any matching triple, or (nil, nil) for "absent".
func (c *Context) testSubject(ctx context.Context, uri string) (*SubjectHandle, error) {
	return c.testSubjectNode(ctx, driver.URI(uri))
}

// testSubjectNode is testSubject generalised to an already-bound Node.
func (c *Context) testSubjectNode(ctx context.Context, node driver.Node) (*SubjectHandle, error) {
	ok, err := c.model.Exists(ctx, driver.SubjectPattern(node))
	if err != nil {
		e := &Error{Kind: ErrInternal, Inner: err, Message: "model query failed"}
		c.setErr(e)
		return nil, e
	}
	if !ok {
		return nil, nil
	}
	return newSubjectHandle(c, node), nil
}

// LocateNode is Locate for a subject already bound to a [driver.Node] —
// typically one a caller read off a triple returned by an earlier
// Triples() iteration — rather than a URI string. It performs no network
// I/O, matching the original's lod_subject_locate, which accepts either
// form (spec's supplemented features).
func (c *Context) LocateNode(ctx context.Context, n driver.Node) (*SubjectHandle, error) {
	ctx = c.logCtx(ctx, "lod/Context.LocateNode")
	c.reset()
	c.subject = n.Value
	return c.testSubjectNode(ctx, n)
}

// locateSubjectInChain implements §4.7's locate_subject_in_chain: it scans
// the subject chain in push order and returns a handle for the first URI
// with any triple in the model.
func (c *Context) locateSubjectInChain(ctx context.Context) (*SubjectHandle, error) {
	for _, uri := range c.subjectChain {
		h, err := c.testSubject(ctx, uri)
		if err != nil {
			return nil, err
		}
		if h != nil {
			return h, nil
		}
	}
	return nil, nil
}

// indirectPrimaryTopic implements §4.7's FETCH_PRIMARY_TOPIC behaviour:
// given a found handle, look for (found, foaf:primaryTopic, ?o); if ?o
// exists and is itself a subject of some triple, return a handle for ?o
// instead.
func (c *Context) indirectPrimaryTopic(ctx context.Context, h *SubjectHandle) (*SubjectHandle, error) {
	pred := driver.URI(primaryTopicPredicate)
	it, err := c.model.Find(ctx, driver.Pattern{Subject: &h.subject, Predicate: &pred})
	if err != nil {
		e := &Error{Kind: ErrInternal, Inner: err, Message: "model query failed"}
		c.setErr(e)
		return nil, e
	}
	defer it.Close()
	if !it.Next() {
		return h, it.Err()
	}
	topic := it.Triple().Object
	if it.Err() != nil {
		return nil, it.Err()
	}

	ok, err := c.model.Exists(ctx, driver.SubjectPattern(topic))
	if err != nil {
		e := &Error{Kind: ErrInternal, Inner: err, Message: "model query failed"}
		c.setErr(e)
		return nil, e
	}
	if !ok {
		return h, nil
	}
	return newSubjectHandle(c, topic), nil
}
