// Package transport provides the default HTTP fetch adapter (spec C2): a
// [driver.Fetcher] backed by net/http that performs exactly one exchange
// per call and never follows redirects itself — that is the fetch loop's
// job (package lod).
package transport

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/quay/zlog"

	"github.com/lod-project/lod/driver"
	"github.com/lod-project/lod/internal/httputil"
)

// Fetcher is the default [driver.Fetcher]. The zero value is not usable;
// construct one with [New].
type Fetcher struct {
	client *http.Client
	accept string
	ua     string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient overrides the [http.Client] used for requests. The client's
// CheckRedirect is always replaced on construction, since adapters must
// never themselves follow redirects (spec §4.2).
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithAcceptHeader sets the Accept header value sent with every request.
func WithAcceptHeader(accept string) Option {
	return func(f *Fetcher) { f.accept = accept }
}

// WithUserAgent sets the User-Agent header value sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.ua = ua }
}

// New returns a Fetcher ready to use.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{},
		ua:     "lod-resolver/1 (+https://github.com/lod-project/lod)",
	}
	for _, o := range opts {
		o(f)
	}
	client := *f.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	f.client = &client
	return f
}

// Fetch implements [driver.Fetcher]: it performs one GET against uri and
// populates resp, never following redirects itself (spec §4.2). On a
// transport-level failure resp.Status is left at 0 and resp.SetError holds
// the message; the error return mirrors that for callers that don't want to
// re-inspect resp.
func (f *Fetcher) Fetch(ctx context.Context, uri string, resp *driver.Response) error {
	ctx = zlog.ContextWithValues(ctx, "component", "transport/Fetcher.Fetch")
	resp.Reset()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		resp.SetError(err.Error())
		return err
	}
	if f.accept != "" {
		req.Header.Set("Accept", f.accept)
	}
	req.Header.Set("User-Agent", f.ua)

	zlog.Debug(ctx).Str("uri", uri).Msg("starting fetch")
	res, err := f.client.Do(req)
	if err != nil {
		resp.SetError(err.Error())
		return err
	}
	defer res.Body.Close()

	resp.SetStatus(res.StatusCode)

	switch {
	case res.StatusCode >= 300 && res.StatusCode <= 399:
		resp.SetRedirectTarget(res.Header.Get("Location"))
		return nil
	case res.StatusCode >= 200 && res.StatusCode <= 299:
		// fall through to body handling below
	default:
		if err := httputil.UnexpectedStatus(res); err != nil {
			zlog.Debug(ctx).Err(err).Msg("non-2xx, non-3xx status")
		}
		return nil
	}

	effective := uri
	if res.Request != nil && res.Request.URL != nil {
		effective = res.Request.URL.String()
	}
	resp.SetEffectiveURI(effective)

	mt := res.Header.Get("Content-Type")
	if mt != "" {
		if parsed, params, err := mime.ParseMediaType(mt); err == nil {
			mt = parsed
			resp.SetCharset(params["charset"])
		}
	}
	resp.SetMIMEType(mt)

	limit := driver.MaxPayload + 1
	body, err := io.ReadAll(io.LimitReader(res.Body, int64(limit)))
	if err != nil {
		resp.SetError(err.Error())
		return err
	}
	if err := resp.AppendPayload(body); err != nil {
		return err
	}
	zlog.Debug(ctx).Int("status", res.StatusCode).Str("mime", mt).
		Str("bytes", strconv.Itoa(len(body))).Msg("fetch complete")
	return nil
}
