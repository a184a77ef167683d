package lod

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quay/zlog"

	"github.com/lod-project/lod/driver"
	"github.com/lod-project/lod/memgraph"
	"github.com/lod-project/lod/rdfxml"
	"github.com/lod-project/lod/transport"
	"github.com/lod-project/lod/turtle"
)

// defaultMaxRedirects is the default bound on both the hop counter and the
// subject chain's length (spec §3).
const defaultMaxRedirects = 32

// htmlMIMETypes are the MIME types C5 treats as HTML for the purposes of
// deciding whether to attempt autodiscovery (spec §4.5).
var htmlMIMETypes = map[string]bool{
	"text/html":                       true,
	"application/xhtml+xml":           true,
	"application/vnd.wap.xhtml+xml":   true,
	"application/vnd.ctv.xhtml+xml":   true,
	"application/vnd.hbbtv.xhtml+xml": true,
}

// primaryTopicPredicate is the predicate used for §4.7's optional
// re-indirection.
const primaryTopicPredicate = "http://xmlns.com/foaf/0.1/primaryTopic"

// Context is the root scoped resource (spec C8): it owns the RDF model, the
// HTTP fetcher, the parser registry, and the per-session fields the fetch
// loop and resolver façade mutate.
//
// A Context is not safe for concurrent use; the scheduling model is
// single-threaded cooperative (spec §5). Callers needing parallelism should
// create independent Contexts.
type Context struct {
	model    driver.Model
	fetcher  driver.Fetcher
	parsers  *driver.ParserRegistry
	ownModel bool

	maxRedirects int
	acceptHeader string
	userAgent    string
	verbose      bool

	ref uuid.UUID

	// Per-resolution fields, cleared by reset.
	subjectChain []string
	subject      string
	document     string
	status       int
	err          *Error
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithModel injects a caller-owned [driver.Model] in place of the default
// in-memory one. The Context will not close or clear it.
func WithModel(m driver.Model) Option {
	return func(c *Context) { c.model = m; c.ownModel = false }
}

// WithFetcher injects a caller-owned [driver.Fetcher] in place of the
// default net/http-backed one. Per spec §6, when a caller injects a
// pre-configured HTTP handle, the core sets no headers of its own.
func WithFetcher(f driver.Fetcher) Option {
	return func(c *Context) { c.fetcher = f }
}

// WithMaxRedirects overrides the default bound of 32 hops/subject-chain
// entries.
func WithMaxRedirects(n int) Option {
	return func(c *Context) { c.maxRedirects = n }
}

// WithAcceptHeader overrides the default Accept header (built from the
// registered parsers) sent with every request of the default Fetcher.
func WithAcceptHeader(accept string) Option {
	return func(c *Context) { c.acceptHeader = accept }
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Context) { c.userAgent = ua }
}

// WithVerbose turns on debug-level tracing of the fetch loop's hops.
func WithVerbose(v bool) Option {
	return func(c *Context) { c.verbose = v }
}

// WithParser registers an additional [driver.Parser] for mimeType, with the
// given Accept-header quality (1-10). Built-in Turtle and RDF/XML parsers
// are always registered first; a later call with the same MIME type
// replaces the earlier registration.
func WithParser(mimeType string, p driver.Parser, quality int) Option {
	return func(c *Context) { c.parsers.Register(mimeType, p, quality) }
}

// New returns a ready-to-use Context. The default model is an empty
// [memgraph.Graph]; the default fetcher is a [transport.Fetcher] configured
// with the computed Accept header and a library-identifying User-Agent.
func New(opts ...Option) *Context {
	c := &Context{
		parsers:      driver.NewParserRegistry(),
		maxRedirects: defaultMaxRedirects,
		userAgent:    "lod-resolver/1 (+https://github.com/lod-project/lod)",
		ref:          uuid.New(),
	}
	c.parsers.Register("text/turtle", turtle.Parser{}, 10)
	c.parsers.Register("application/rdf+xml", rdfxml.Parser{}, 8)

	for _, o := range opts {
		o(c)
	}
	if c.acceptHeader == "" {
		c.acceptHeader = c.parsers.AcceptHeader()
	}
	if c.model == nil {
		c.model = memgraph.New()
		c.ownModel = true
	}
	if c.fetcher == nil {
		c.fetcher = transport.New(
			transport.WithAcceptHeader(c.acceptHeader),
			transport.WithUserAgent(c.userAgent),
		)
	}
	return c
}

// Close releases resources the Context itself allocated. A caller-injected
// model is left untouched, per spec §4.8.
func (c *Context) Close() error {
	if c.ownModel {
		c.model = nil
	}
	c.fetcher = nil
	return nil
}

// reset clears the per-resolution fields but preserves configuration and
// the model (spec §4.8).
func (c *Context) reset() {
	c.subjectChain = c.subjectChain[:0]
	c.subject = ""
	c.document = ""
	c.status = 0
	c.err = nil
}

// setErr records err as the sticky session error if none is already set
// (spec §7: "only the first is retained").
func (c *Context) setErr(err *Error) {
	if c.err == nil {
		c.err = err
	}
}

// pushSubject appends uri to the subject chain, refusing to exceed
// max_redirects (spec §3 invariant 2, §4.6).
func (c *Context) pushSubject(uri string) error {
	if len(c.subjectChain) >= c.maxRedirects {
		err := &Error{Kind: ErrRedirectLimit, Message: "too many redirects encountered"}
		c.setErr(err)
		return err
	}
	c.subjectChain = append(c.subjectChain, uri)
	return nil
}

// logCtx tags ctx with this Context's correlation ID (one ID per Context,
// shared by all its calls) and component name, the way the teacher threads
// zlog values through a call chain.
func (c *Context) logCtx(ctx context.Context, component string) context.Context {
	return zlog.ContextWithValues(ctx, "component", component, "session", c.ref.String())
}

// Subject reports the URI most recently given to a locate/fetch/resolve
// call (not mutated by redirects).
func (c *Context) Subject() string { return c.subject }

// Document reports the URI of the final document that contributed parsed
// triples in the last session, with any fragment stripped.
func (c *Context) Document() string { return c.document }

// Status reports the HTTP status of the last exchange, or 0 if none.
func (c *Context) Status() int { return c.status }

// LastError returns the sticky error from the last session, or nil.
func (c *Context) LastError() *Error { return c.err }

// LastErrMsg renders the sticky error's message, or "Unknown error" if an
// error is set without one (spec §3 invariant 3).
func (c *Context) LastErrMsg() string {
	if c.err == nil {
		return ""
	}
	if c.err.Message == "" {
		return "Unknown error"
	}
	return c.err.Message
}

// Model returns the Context's RDF graph.
func (c *Context) Model() driver.Model { return c.model }

func (c *Context) debugf(ctx context.Context, format string, args ...any) {
	if !c.verbose {
		return
	}
	zlog.Debug(ctx).Msg(fmt.Sprintf(format, args...))
}
