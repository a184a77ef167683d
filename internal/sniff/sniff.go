// Package sniff implements the content-sniffing fallback described in spec
// §4.3: a last-resort guess at an RDF serialisation from a payload's leading
// bytes, used only when the declared MIME type is missing or generic.
//
// There is no third-party sniffing library in the teacher's dependency tree
// that understands RDF serialisations specifically (net/http's DetectContentType
// only covers the MIME sniffing table for common Web media types, not Turtle
// or RDF/XML), so this is deliberately a small hand-rolled prefix match: see
// DESIGN.md for why no library could serve this.
package sniff

import "bytes"

// Generic is the set of declared MIME types that never tell us anything
// useful and so should still trigger sniffing.
var Generic = map[string]bool{
	"":                         true,
	"text/plain":               true,
	"application/octet-stream": true,
	"application/x-unknown":    true,
}

// minLength is the smallest payload sniff will attempt to classify; shorter
// payloads are too ambiguous to guess at, per spec §4.3 rule 1.
const minLength = 128

// Classify guesses an RDF serialisation's MIME type from payload's leading
// bytes, returning "" if no guess can be made.
func Classify(payload []byte) string {
	if len(payload) < minLength {
		return ""
	}
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	switch {
	case hasPrefix(trimmed, "<!"), hasPrefix(trimmed, "<?"):
		return "application/rdf+xml"
	case hasPrefix(trimmed, "@base"), hasPrefix(trimmed, "@prefix"), hasPrefix(trimmed, "<http"):
		return "text/turtle"
	default:
		return ""
	}
}

func hasPrefix(b []byte, prefix string) bool {
	return bytes.HasPrefix(b, []byte(prefix))
}
