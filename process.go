package lod

import (
	"context"
	"fmt"
	"strings"

	"github.com/lod-project/lod/driver"
	"github.com/lod-project/lod/internal/autodiscover"
	"github.com/lod-project/lod/internal/sniff"
)

// outcomeTag is the response processor's (C5) verdict, modelled as a sum
// type per spec §9's design note rather than an ad-hoc mix of status-code
// comparisons and pointer checks.
type outcomeTag int

const (
	outcomeComplete outcomeTag = iota
	outcomeFollow
	outcomeFollowReplace
	outcomeFollowLink
	outcomeFail
)

// outcome is C5's return value.
type outcome struct {
	tag    outcomeTag
	target string // for outcomeFollow/outcomeFollowReplace/outcomeFollowLink
	err    *Error // for outcomeFail
}

// processResponse implements C5: it classifies one populated resp into a
// fetch-loop action, and on COMPLETE drives the RDF parser into the model.
func (c *Context) processResponse(ctx context.Context, resp *driver.Response) outcome {
	ctx = c.logCtx(ctx, "lod/Context.processResponse")

	status := resp.Status()
	c.status = status
	switch {
	case status >= 300 && status <= 399:
		target := resp.RedirectTarget()
		if target == "" {
			return outcome{tag: outcomeFail, err: &Error{
				Kind: ErrHTTPStatus, Message: fmt.Sprintf("HTTP status %d with no Location header", status),
			}}
		}
		if status == 303 {
			return outcome{tag: outcomeFollowReplace, target: target}
		}
		return outcome{tag: outcomeFollow, target: target}
	case status < 200 || status > 299:
		return outcome{tag: outcomeFail, err: &Error{
			Kind: ErrHTTPStatus, Message: fmt.Sprintf("HTTP status %d", status),
		}}
	}

	// 2xx from here on.
	if resp.EffectiveURI() == "" {
		return outcome{tag: outcomeFail, err: &Error{
			Kind: ErrHTTPStatus, Message: "no effective URI in response",
		}}
	}
	if len(resp.Payload()) == 0 {
		// XXX: a Link: rel=describedby header could be accepted here; not
		// required for parity (spec §9).
		return outcome{tag: outcomeFail, err: &Error{
			Kind: ErrHTTPStatus, Message: "empty payload",
		}}
	}

	declared := stripParams(resp.MIMEType())
	if htmlMIMETypes[declared] {
		link, err := autodiscover.Discover(ctx, resp.Payload(), resp.EffectiveURI(), resp.Charset())
		if err != nil {
			return outcome{tag: outcomeFail, err: &Error{Kind: ErrAutodiscovery, Inner: err,
				Message: "failed to discover link to RDF representation from HTML document"}}
		}
		if link == "" {
			return outcome{tag: outcomeFail, err: &Error{
				Kind: ErrAutodiscovery, Message: "failed to discover link to RDF representation from HTML document",
			}}
		}
		return outcome{tag: outcomeFollowLink, target: link}
	}

	mimeType := declared
	if sniff.Generic[declared] {
		guess := sniff.Classify(resp.Payload())
		if guess == "" {
			return outcome{tag: outcomeFail, err: &Error{
				Kind: ErrSniff, Message: "failed to determine serialisation",
			}}
		}
		mimeType = guess
	}

	parser, ok := c.parsers.Lookup(mimeType)
	if !ok {
		return outcome{tag: outcomeFail, err: &Error{
			Kind: ErrParse, Message: fmt.Sprintf("no parser registered for %q", mimeType),
		}}
	}

	triples, err := parser.Parse(ctx, resp.EffectiveURI(), resp.Payload())
	if err != nil {
		return outcome{tag: outcomeFail, err: &Error{Kind: ErrParse, Inner: err, Message: "RDF parse failed"}}
	}
	if err := c.model.AddTriples(ctx, triples); err != nil {
		return outcome{tag: outcomeFail, err: &Error{Kind: ErrParse, Inner: err, Message: "failed to add parsed triples to model"}}
	}

	c.document = resp.EffectiveURI()
	return outcome{tag: outcomeComplete}
}

// stripParams removes any ";..." parameters from a MIME type, per spec
// §4.5.
func stripParams(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.TrimSpace(mimeType)
}
