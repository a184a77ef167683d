// Package lod resolves Linked Open Data URIs: given a URI naming a
// real-world thing, it performs HTTP content-negotiated dereferencing,
// follows the Linked Data "follow-your-nose" conventions (redirects, HTML
// autodiscovery, content sniffing), parses the result into a persistent RDF
// graph, and hands back a handle onto the triples describing that thing.
package lod

import (
	"errors"
	"strings"
)

// Error is the lod error domain type.
//
// Components should create an Error at the point a failure is first
// observed (a bad HTTP status, a parser refusing a payload, a redirect cap
// being hit) and intermediate layers should not wrap in another Error
// except to add additional [ErrorKind] information — prefer [fmt.Errorf]
// with a "%w" verb over constructing another Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

// Assert this implements all the cool features.
var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	switch e.Kind {
	case ErrInternal, ErrTransport, ErrHTTPStatus, ErrRedirectLimit,
		ErrAutodiscovery, ErrSniff, ErrParse, ErrInvalid:
		b.WriteString(string(e.Kind))
	default:
		b.WriteString("???")
	}
	b.WriteString("]: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	}
	if e.Message != "" && e.Inner != nil {
		b.WriteString(": ")
	}
	if e.Op == "" && e.Message == "" {
		b.Reset()
	}
	if e.Inner != nil {
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is].
//
// Comparing against ErrRetryable asks "would retrying this exact call,
// unmodified, plausibly succeed?" — true only for ErrTransport (spec §7.2).
// Every other kind names a permanent condition: the remote resource itself
// has to change before a repeat fetch would come out differently.
func (e *Error) Is(kind error) bool {
	if kind == ErrRetryable {
		return errors.Is(e.Kind, ErrTransport)
	}
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error {
	return e.Inner
}

// ErrorKind represents classes of errors to be checked against, numbered as
// in spec §7.
//
// If an error is unsure which kind to use, ErrInternal should be used.
type ErrorKind string

// Defined error kinds.
var (
	// ErrInternal covers allocation or programmer-error failures (§7.1): a
	// Model or ParserRegistry invariant violated by this package itself.
	ErrInternal = ErrorKind("internal")
	// ErrTransport covers a Fetcher returning an error, or a status of 0
	// meaning the exchange never reached the remote server (§7.2).
	ErrTransport = ErrorKind("transport")
	// ErrHTTPStatus covers a non-2xx, non-3xx status, or a 3xx status the
	// fetch loop declined to follow (§7.3).
	ErrHTTPStatus = ErrorKind("http status")
	// ErrRedirectLimit covers the hop count reaching max_redirects without
	// landing on a 2xx (§7.4).
	ErrRedirectLimit = ErrorKind("redirect limit")
	// ErrAutodiscovery covers HTML autodiscovery finding no qualifying
	// <link>, or being invoked a second time in one fetch (§7.5).
	ErrAutodiscovery = ErrorKind("autodiscovery")
	// ErrSniff covers content sniffing failing to classify a payload whose
	// declared MIME type was missing or generic (§7.6).
	ErrSniff = ErrorKind("sniff")
	// ErrParse covers the selected RDF parser rejecting a payload (§7.7).
	ErrParse = ErrorKind("parse")
	// ErrInvalid covers bad configuration or caller-supplied arguments,
	// e.g. Resolve flags that select no network policy.
	ErrInvalid = ErrorKind("invalid")

	// ErrRetryable should only be used for an [Error.Is] comparison. It's
	// true only for ErrTransport.
	ErrRetryable = ErrorKind("retryable")
)

// Error implements error.
func (e ErrorKind) Error() string {
	return string(e)
}
