package driver

import (
	"context"
	"fmt"
	"strings"
)

// payloadQuantum is the granularity AppendPayload grows the buffer in.
const payloadQuantum = 512

// MaxPayload is the hard cap on a Response's payload, per spec §3/§5.
const MaxPayload = 256 << 20 // 256 MiB

// Response holds the outputs of one HTTP exchange. It is created once per
// fetch loop (spec §6) and Reset between hops so its payload buffer's
// capacity can be reused across redirects.
type Response struct {
	status         int
	effectiveURI   string
	redirectTarget string
	mimeType       string
	charset        string
	payload        []byte
	errMsg         string
}

// NewResponse returns an empty Response ready for a Fetcher to populate.
func NewResponse() *Response {
	return &Response{}
}

// Reset clears all fields and truncates the payload, retaining its
// allocated capacity for reuse on the next hop.
func (r *Response) Reset() {
	r.status = 0
	r.effectiveURI = ""
	r.redirectTarget = ""
	r.mimeType = ""
	r.charset = ""
	r.payload = r.payload[:0]
	r.errMsg = ""
}

// Status reports the HTTP status of the exchange, or 0 for a low-level
// transport failure.
func (r *Response) Status() int { return r.status }

// SetStatus records the HTTP status.
func (r *Response) SetStatus(status int) { r.status = status }

// EffectiveURI reports the URL actually fetched, after any transport-level
// redirects the Fetcher itself followed, with any "#fragment" stripped.
func (r *Response) EffectiveURI() string { return r.effectiveURI }

// SetEffectiveURI records the URL actually fetched. Any "#..." suffix is
// stripped before storage, per spec §4.1.
func (r *Response) SetEffectiveURI(uri string) {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		uri = uri[:i]
	}
	r.effectiveURI = uri
}

// RedirectTarget reports the Location header's value on a 3xx response.
func (r *Response) RedirectTarget() string { return r.redirectTarget }

// SetRedirectTarget records the redirect target. Per spec's Design Notes
// (§9, the "set_target" bug in the original), this must only ever touch
// redirectTarget, never effectiveURI.
func (r *Response) SetRedirectTarget(uri string) { r.redirectTarget = uri }

// MIMEType reports the response's declared Content-Type, with any
// ";charset=..." parameter already stripped by the Fetcher.
func (r *Response) MIMEType() string { return r.mimeType }

// SetMIMEType records the MIME type.
func (r *Response) SetMIMEType(mt string) { r.mimeType = mt }

// Charset reports the Content-Type's "charset" parameter, if the server
// declared one. Empty means "assume UTF-8".
func (r *Response) Charset() string { return r.charset }

// SetCharset records the declared charset.
func (r *Response) SetCharset(cs string) { r.charset = cs }

// Payload returns the bytes accumulated so far.
func (r *Response) Payload() []byte { return r.payload }

// ErrMsg reports the transport-level error message, if any.
func (r *Response) ErrMsg() string { return r.errMsg }

// SetError records a transport-level error message.
func (r *Response) SetError(msg string) { r.errMsg = msg }

// AppendPayload grows the payload buffer in 512-byte quanta and appends p.
// It fails if the result would exceed MaxPayload, recording an error on the
// Response so the Fetcher can abort the transfer (spec §4.1).
func (r *Response) AppendPayload(p []byte) error {
	need := len(r.payload) + len(p)
	if need > MaxPayload {
		r.SetError(fmt.Sprintf("payload exceeds maximum of %d bytes", MaxPayload))
		return fmt.Errorf("driver: payload exceeds maximum of %d bytes", MaxPayload)
	}
	if cap(r.payload) < need {
		grown := ((need / payloadQuantum) + 1) * payloadQuantum
		buf := make([]byte, len(r.payload), grown)
		copy(buf, r.payload)
		r.payload = buf
	}
	r.payload = append(r.payload, p...)
	return nil
}

// Fetcher performs one HTTP exchange against uri, populating resp.
//
// Fetch must not itself follow redirects; that is the fetch loop's job
// (spec §4.2, §4.6). On return, resp must hold at minimum a status (0 for a
// transport failure) and either resp.ErrMsg or enough fields for the
// response processor to act on: for a 2xx, EffectiveURI/MIMEType/Payload;
// for a 3xx, RedirectTarget from the Location header.
type Fetcher interface {
	Fetch(ctx context.Context, uri string, resp *Response) error
}
