package autodiscover

import (
	"context"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/htmlindex"
)

func TestDecodeNonUTF8Charset(t *testing.T) {
	enc, err := htmlindex.Get("iso-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	raw, err := enc.NewEncoder().String("café")
	if err != nil {
		t.Fatal(err)
	}

	r := decode([]byte(raw), "iso-8859-1")
	var buf strings.Builder
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "café" {
		t.Errorf("decode() = %q, want %q", got, "café")
	}
}

func TestDecodeUnknownCharsetFallsBackToUTF8(t *testing.T) {
	r := decode([]byte("plain"), "not-a-real-charset")
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "plain" {
		t.Errorf("decode() = %q, want %q", b, "plain")
	}
}

// TestDiscoverWithDeclaredCharset exercises the full path from a declared
// non-UTF-8 charset through to autodiscovery succeeding, proving the
// Content-Type charset parameter actually reaches html.Parse rather than
// always being treated as UTF-8.
func TestDiscoverWithDeclaredCharset(t *testing.T) {
	enc, err := htmlindex.Get("iso-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	doc := `<html><head><title>Café</title>` +
		`<link rel="alternate" type="text/turtle" href="/thing.ttl">` +
		`</head><body>café</body></html>`
	raw, err := enc.NewEncoder().String(doc)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Discover(context.Background(), []byte(raw), "http://example/thing", "iso-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if want := "http://example/thing.ttl"; got != want {
		t.Errorf("Discover() = %q, want %q", got, want)
	}
}
