package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quay/zlog"

	"github.com/lod-project/lod/driver"
)

func TestFetchSuccess(t *testing.T) {
	ctx := zlog.Test(t.Context(), t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/turtle; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<http://example/a> <http://example/p> "v" .`))
	}))
	defer srv.Close()

	f := New()
	resp := driver.NewResponse()
	if err := f.Fetch(ctx, srv.URL, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := resp.Status(), http.StatusOK; got != want {
		t.Errorf("status: got %d, want %d", got, want)
	}
	if got, want := resp.MIMEType(), "text/turtle"; got != want {
		t.Errorf("mime type: got %q, want %q", got, want)
	}
	if got, want := string(resp.Payload()), `<http://example/a> <http://example/p> "v" .`; got != want {
		t.Errorf("payload: got %q, want %q", got, want)
	}
}

func TestFetchRedirectNotFollowed(t *testing.T) {
	ctx := zlog.Test(t.Context(), t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://example/other")
		w.WriteHeader(http.StatusSeeOther)
	}))
	defer srv.Close()

	f := New()
	resp := driver.NewResponse()
	if err := f.Fetch(ctx, srv.URL, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := resp.Status(), http.StatusSeeOther; got != want {
		t.Errorf("status: got %d, want %d", got, want)
	}
	if got, want := resp.RedirectTarget(), "http://example/other"; got != want {
		t.Errorf("redirect target: got %q, want %q", got, want)
	}
	if len(resp.Payload()) != 0 {
		t.Errorf("expected no payload on a redirect, got %q", resp.Payload())
	}
}

func TestFetchTransportError(t *testing.T) {
	ctx := zlog.Test(t.Context(), t)
	f := New()
	resp := driver.NewResponse()
	if err := f.Fetch(ctx, "http://127.0.0.1:0", resp); err == nil {
		t.Fatal("expected an error")
	}
	if resp.ErrMsg() == "" {
		t.Error("expected resp.ErrMsg to be populated")
	}
	if got, want := resp.Status(), 0; got != want {
		t.Errorf("status: got %d, want %d", got, want)
	}
}
