// Package httputil holds the one net/http helper transport.Fetcher needs:
// rendering a diagnosable error for a status outside the 2xx/3xx range it
// already handles directly.
package httputil

import (
	"fmt"
	"io"
	"net/http"
)

// UnexpectedStatus builds an error describing resp's status, including a
// snippet of the body so a 4xx/5xx failure is legible from logs alone
// without the caller needing to re-fetch or re-read the response.
//
// It is only ever called once transport.Fetcher has already ruled out
// 2xx (success) and 3xx (redirect, handled by the fetch loop itself), so
// unlike a general-purpose response checker it takes no list of acceptable
// codes: by the time it's reached, the status is unconditionally a problem.
func UnexpectedStatus(resp *http.Response) error {
	limitBody, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err == nil {
		return fmt.Errorf("unexpected status code: %q for %q (body starts: %q)", resp.Status, resp.Request.URL.Redacted(), limitBody)
	}
	return fmt.Errorf("unexpected status code: %q for %q", resp.Status, resp.Request.URL.Redacted())
}
