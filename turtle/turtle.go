// Package turtle implements a [driver.Parser] for a practical subset of
// Turtle (https://www.w3.org/TR/turtle/): "@prefix" declarations, "@base",
// full IRIs in angle brackets, prefixed names, plain/language-tagged/typed
// literals, and the "a" keyword for rdf:type. It does not support blank
// node property lists, collections, or numeric/boolean literal shorthand;
// those payloads are expected to arrive pre-expanded or are simply out of
// scope for a "follow your nose" resolver, whose fixtures are small
// hand-authored description documents rather than arbitrary Turtle in the
// wild.
package turtle

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lod-project/lod/driver"
)

// Parser is the default Turtle [driver.Parser]. The zero value is ready to
// use.
type Parser struct{}

var _ driver.Parser = Parser{}

// Parse implements [driver.Parser].
func (Parser) Parse(_ context.Context, base string, payload []byte) ([]driver.Triple, error) {
	stmts, err := splitStatements(string(payload))
	if err != nil {
		return nil, fmt.Errorf("turtle: %w", err)
	}
	p := &parser{
		base:    base,
		prefix:  make(map[string]string),
		subject: make(map[string]driver.Node),
	}
	return p.run(stmts)
}

type parser struct {
	base    string
	prefix  map[string]string
	line    int
	subject map[string]driver.Node
}

// statement is one '.'-terminated Turtle statement and the source line its
// first byte appeared on, for error messages.
type statement struct {
	text string
	line int
}

// splitStatements breaks src into '.'-terminated statements, tracking
// angle-bracket and quote nesting so a period inside an IRI or a literal
// doesn't end the statement early, and dropping "#" comments. Unlike a
// line-oriented scan, this lets more than one statement share a line and a
// single statement span several.
func splitStatements(src string) ([]statement, error) {
	var out []statement
	var cur strings.Builder
	line, start := 1, 1
	var inAngle, inQuote, inComment bool
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\n' {
			line++
			inComment = false
			if cur.Len() > 0 {
				cur.WriteByte(' ')
			}
			continue
		}
		if inComment {
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' && strings.TrimSpace(cur.String()) == "" {
			start = line
		}
		switch {
		case c == '#' && !inAngle && !inQuote:
			inComment = true
		case c == '"' && !inAngle:
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == '<' && !inQuote:
			inAngle = true
			cur.WriteByte(c)
		case c == '>' && !inQuote:
			inAngle = false
			cur.WriteByte(c)
		case c == '.' && !inAngle && !inQuote:
			if text := strings.TrimSpace(cur.String()); text != "" {
				out = append(out, statement{text: text, line: start})
			}
			cur.Reset()
			start = line
		default:
			cur.WriteByte(c)
		}
	}
	if inAngle || inQuote {
		return nil, fmt.Errorf("line %d: unterminated token", start)
	}
	if strings.TrimSpace(cur.String()) != "" {
		return nil, fmt.Errorf("line %d: statement missing terminating '.'", start)
	}
	return out, nil
}

func (p *parser) run(stmts []statement) ([]driver.Triple, error) {
	var triples []driver.Triple
	for _, st := range stmts {
		p.line = st.line
		stmt := st.text
		switch {
		case strings.HasPrefix(stmt, "@prefix"):
			if err := p.directive(stmt, "@prefix"); err != nil {
				return nil, err
			}
			continue
		case strings.HasPrefix(stmt, "@base"):
			if err := p.directive(stmt, "@base"); err != nil {
				return nil, err
			}
			continue
		}
		fields, err := tokenize(stmt)
		if err != nil {
			return nil, p.err(err)
		}
		if len(fields) != 3 {
			return nil, p.err(fmt.Errorf("expected subject predicate object, got %d fields", len(fields)))
		}
		s, err := p.resolveTerm(fields[0], true)
		if err != nil {
			return nil, p.err(err)
		}
		pr, err := p.resolveTerm(fields[1], true)
		if err != nil {
			return nil, p.err(err)
		}
		o, err := p.resolveTerm(fields[2], false)
		if err != nil {
			return nil, p.err(err)
		}
		triples = append(triples, driver.Triple{Subject: s, Predicate: pr, Object: o})
	}
	return triples, nil
}

func (p *parser) err(inner error) error {
	return fmt.Errorf("turtle: line %d: %w", p.line, inner)
}

// directive handles a single "@prefix name: <iri> ." or "@base <iri> ."
// statement. Turtle allows these to set the default prefix/base for the
// rest of the document, which this parser applies in statement order;
// fixtures that use a prefix before declaring it are rejected.
func (p *parser) directive(stmt, kw string) error {
	stmt = strings.TrimSuffix(strings.TrimSpace(stmt), ".")
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, kw))
	if kw == "@base" {
		iri := strings.Trim(rest, "<>")
		abs, err := p.absolute(iri)
		if err != nil {
			return p.err(err)
		}
		p.base = abs
		return nil
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return p.err(fmt.Errorf("malformed @prefix directive %q", stmt))
	}
	name := strings.TrimSpace(parts[0])
	iri := strings.Trim(strings.TrimSpace(parts[1]), "<>")
	p.prefix[name] = iri
	return nil
}

func (p *parser) absolute(iri string) (string, error) {
	u, err := url.Parse(iri)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	b, err := url.Parse(p.base)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(u).String(), nil
}

// resolveTerm turns a single token into a Node. asRef enables the keyword
// "a" as shorthand for rdf:type; with asRef false (object position) "a" is
// not recognised.
func (p *parser) resolveTerm(tok string, asRef bool) (driver.Node, error) {
	switch {
	case tok == "a" && asRef:
		return driver.URI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"), nil
	case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">"):
		abs, err := p.absolute(tok[1 : len(tok)-1])
		if err != nil {
			return driver.Node{}, err
		}
		return driver.URI(abs), nil
	case strings.HasPrefix(tok, "_:"):
		return driver.Blank(tok[2:]), nil
	case strings.HasPrefix(tok, `"`):
		return p.literal(tok)
	case strings.Contains(tok, ":"):
		parts := strings.SplitN(tok, ":", 2)
		base, ok := p.prefix[parts[0]]
		if !ok {
			return driver.Node{}, fmt.Errorf("undeclared prefix %q", parts[0])
		}
		return driver.URI(base + parts[1]), nil
	default:
		return driver.Node{}, fmt.Errorf("unrecognised term %q", tok)
	}
}

// literal parses a quoted literal, optionally suffixed with "@lang" or
// "^^<datatype>".
func (p *parser) literal(tok string) (driver.Node, error) {
	end := strings.LastIndexByte(tok, '"')
	if end <= 0 {
		return driver.Node{}, fmt.Errorf("unterminated literal %q", tok)
	}
	lex := tok[1:end]
	suffix := tok[end+1:]
	switch {
	case strings.HasPrefix(suffix, "@"):
		return driver.LiteralLang(lex, suffix[1:]), nil
	case strings.HasPrefix(suffix, "^^"):
		dt := strings.Trim(suffix[2:], "<>")
		abs, err := p.absolute(dt)
		if err != nil {
			return driver.Node{}, err
		}
		return driver.LiteralTyped(lex, abs), nil
	default:
		return driver.Literal(lex), nil
	}
}

// tokenize splits a statement on whitespace, keeping bracketed and quoted
// terms intact.
func tokenize(stmt string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	var inAngle, inQuote bool
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		switch {
		case c == '<' && !inQuote:
			inAngle = true
			cur.WriteByte(c)
		case c == '>' && !inQuote:
			inAngle = false
			cur.WriteByte(c)
		case c == '"' && !inAngle:
			inQuote = !inQuote
			cur.WriteByte(c)
		case (c == ' ' || c == '\t' || c == '\r') && !inAngle && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	if inAngle || inQuote {
		return nil, fmt.Errorf("unterminated token in %q", stmt)
	}
	return fields, nil
}
