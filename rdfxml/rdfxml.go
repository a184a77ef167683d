// Package rdfxml implements a [driver.Parser] for a practical subset of
// RDF/XML (https://www.w3.org/TR/rdf-syntax-grammar/): "rdf:Description"
// elements at the top level of an "rdf:RDF" document, each with an
// "rdf:about" naming its subject, and child elements naming predicates
// whose value is either an "rdf:resource" attribute (an object reference)
// or the element's text content (a literal, optionally "xml:lang"-tagged).
// Nested/striped descriptions and container/collection elements
// (rdf:Bag, rdf:Seq, rdf:parseType="Collection", ...) are not supported.
package rdfxml

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/lod-project/lod/driver"
)

const rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// Parser is the default RDF/XML [driver.Parser]. The zero value is ready
// to use.
type Parser struct{}

var _ driver.Parser = Parser{}

// Parse implements [driver.Parser].
func (Parser) Parse(_ context.Context, base string, payload []byte) ([]driver.Triple, error) {
	dec := xml.NewDecoder(strings.NewReader(string(payload)))
	baseURI, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("rdfxml: bad base URI: %w", err)
	}

	var triples []driver.Triple
	var subject driver.Node
	haveSubject := false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("rdfxml: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space == rdfNS && el.Name.Local == "Description" {
				about, hasAbout := "", false
				for _, a := range el.Attr {
					if a.Name.Space == rdfNS && a.Name.Local == "about" {
						about, hasAbout = a.Value, true
					}
				}
				if !hasAbout {
					continue
				}
				abs, err := resolve(baseURI, about)
				if err != nil {
					return nil, fmt.Errorf("rdfxml: %w", err)
				}
				subject = driver.URI(abs)
				haveSubject = true
				continue
			}
			if !haveSubject {
				continue
			}
			pred := driver.URI(el.Name.Space + el.Name.Local)
			if resRef := attr(el, rdfNS, "resource"); resRef != "" {
				abs, err := resolve(baseURI, resRef)
				if err != nil {
					return nil, fmt.Errorf("rdfxml: %w", err)
				}
				triples = append(triples, driver.Triple{Subject: subject, Predicate: pred, Object: driver.URI(abs)})
				continue
			}
			text, lang, err := readText(dec, el)
			if err != nil {
				return nil, fmt.Errorf("rdfxml: %w", err)
			}
			var obj driver.Node
			if lang != "" {
				obj = driver.LiteralLang(text, lang)
			} else {
				obj = driver.Literal(text)
			}
			triples = append(triples, driver.Triple{Subject: subject, Predicate: pred, Object: obj})
		case xml.EndElement:
			if el.Name.Space == rdfNS && el.Name.Local == "Description" {
				haveSubject = false
			}
		}
	}
	return triples, nil
}

func attr(el xml.StartElement, space, local string) string {
	for _, a := range el.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func resolve(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

// readText consumes tokens up to the matching end element for start,
// concatenating character data. It does not support mixed content with
// nested elements; any nested element encountered is an error, since this
// parser doesn't support striped/nested descriptions.
func readText(dec *xml.Decoder, start xml.StartElement) (text, lang string, err error) {
	lang = attr(start, "http://www.w3.org/XML/1998/namespace", "lang")
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", "", err
		}
		switch el := tok.(type) {
		case xml.CharData:
			b.Write(el)
		case xml.StartElement:
			return "", "", fmt.Errorf("nested element %q inside %q is not supported", el.Name.Local, start.Name.Local)
		case xml.EndElement:
			return strings.TrimSpace(b.String()), lang, nil
		}
	}
}
