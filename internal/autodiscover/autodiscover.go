// Package autodiscover implements the HTML link-rel autodiscovery described
// in spec §4.4: given an HTML payload, find the first
// <link rel="alternate" type="..."> that names an RDF serialisation and
// resolve its href against a base URI.
//
// HTML parsing uses golang.org/x/net/html, the same library the teacher
// reaches for when it has to scrape a directory listing (suse/factory.go);
// charset handling uses golang.org/x/text/encoding/htmlindex, the idiomatic
// pairing for non-UTF-8 HTML in the wider Go ecosystem.
package autodiscover

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

// rdfLinkTypes are the MIME types a "<link rel=alternate>" must declare to
// be considered an RDF autodiscovery target, per spec §4.4.
var rdfLinkTypes = map[string]bool{
	"text/turtle":         true,
	"application/rdf+xml": true,
}

// Discover returns the absolute URL of the first
// <link rel="alternate" type="text/turtle|application/rdf+xml" href="...">
// found in payload, resolved against base. It returns "" with a nil error if
// no such link exists. HTML parse warnings are not surfaced as errors (spec
// §4.4: "HTML/XML parse warnings are suppressed"); only a structurally
// unparsable payload or a malformed base/href returns an error.
func Discover(ctx context.Context, payload []byte, base string, charset string) (string, error) {
	baseURI, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	r := decode(payload, charset)
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	href, ok := findLink(doc)
	if !ok {
		return "", nil
	}
	target, err := baseURI.Parse(href)
	if err != nil {
		return "", err
	}
	return target.String(), nil
}

// decode returns a reader over payload, transcoding from charset to UTF-8
// when the declared charset is recognised and not already UTF-8. Any
// failure to resolve or use the declared encoding falls back to treating
// the payload as UTF-8, since sniffing for an RDF link is best-effort.
func decode(payload []byte, charset string) *bytes.Reader {
	charset = strings.TrimSpace(charset)
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return bytes.NewReader(payload)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return bytes.NewReader(payload)
	}
	decoded, err := enc.NewDecoder().Bytes(payload)
	if err != nil {
		return bytes.NewReader(payload)
	}
	return bytes.NewReader(decoded)
}

// findLink walks n's tree in document order looking for the first
// qualifying <link> element.
func findLink(n *html.Node) (href string, ok bool) {
	if n.Type == html.ElementNode && n.Data == "link" {
		var rel, typ, hrefAttr string
		var hasRel, hasType, hasHref bool
		for _, a := range n.Attr {
			switch a.Key {
			case "rel":
				rel, hasRel = a.Val, true
			case "type":
				typ, hasType = a.Val, true
			case "href":
				hrefAttr, hasHref = a.Val, true
			}
		}
		if hasRel && hasType && hasHref && rel == "alternate" && rdfLinkTypes[typ] {
			return hrefAttr, true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href, ok = findLink(c); ok {
			return href, true
		}
	}
	return "", false
}
