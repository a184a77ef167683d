package lod

import (
	"context"
	"strings"

	"github.com/quay/zlog"

	"github.com/lod-project/lod/driver"
)

// spliceFragment builds the next URI for a non-303 redirect (spec §4.6): if
// a fragment was captured at loop entry, splice it onto target —
// overwriting any fragment target already carries, or appending one if it
// has none.
func spliceFragment(target, fragment string) string {
	if fragment == "" {
		return target
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	return target + "#" + fragment
}

// fetchLoop implements C6: it drives the fetcher and response processor
// across up to max_redirects hops, maintaining the subject chain and the
// saved fragment, and returns only once the loop terminates (success or
// failure); callers read the terminal state off c (status, document,
// error).
func (c *Context) fetchLoop(ctx context.Context, startURI string) error {
	ctx = c.logCtx(ctx, "lod/Context.fetchLoop")

	fragment := ""
	if i := strings.IndexByte(startURI, '#'); i >= 0 {
		fragment = startURI[i+1:]
	}

	if err := c.pushSubject(startURI); err != nil {
		return err
	}

	resp := driver.NewResponse()
	current := startURI
	followedLink := false

	for hop := 0; ; hop++ {
		resp.Reset()
		c.debugf(ctx, "hop %d: fetching %s", hop, current)

		if err := c.fetcher.Fetch(ctx, current, resp); err != nil || resp.ErrMsg() != "" {
			msg := resp.ErrMsg()
			if msg == "" && err != nil {
				msg = err.Error()
			}
			e := &Error{Kind: ErrTransport, Inner: err, Message: msg}
			c.setErr(e)
			zlog.Debug(ctx).Err(e).Msg("transport failure")
			return e
		}

		out := c.processResponse(ctx, resp)
		switch out.tag {
		case outcomeComplete:
			return nil
		case outcomeFail:
			c.setErr(out.err)
			return out.err
		case outcomeFollow:
			next := spliceFragment(out.target, fragment)
			if err := c.pushSubject(next); err != nil {
				return err
			}
			current = next
		case outcomeFollowReplace:
			// A 303 leads from an identifier to a document describing it:
			// the saved fragment is not carried onto the document's URI.
			current = out.target
		case outcomeFollowLink:
			if followedLink {
				e := &Error{Kind: ErrAutodiscovery,
					Message: `a <link rel="alternate"> has previously been followed in this resolution session`}
				c.setErr(e)
				return e
			}
			followedLink = true
			if err := c.pushSubject(out.target); err != nil {
				return err
			}
			current = out.target
		}

		if hop+1 == c.maxRedirects {
			e := &Error{Kind: ErrRedirectLimit, Message: "too many redirects encountered"}
			c.setErr(e)
			return e
		}
	}
}
