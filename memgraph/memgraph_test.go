package memgraph

import (
	"testing"

	"github.com/lod-project/lod/driver"
)

func TestAddAndFind(t *testing.T) {
	ctx := t.Context()
	g := New()
	a := driver.URI("http://example/a")
	p := driver.URI("http://example/p")
	v := driver.Literal("v")

	if err := g.AddTriples(ctx, []driver.Triple{{Subject: a, Predicate: p, Object: v}}); err != nil {
		t.Fatal(err)
	}
	// Duplicate add should not double the result set.
	if err := g.AddTriples(ctx, []driver.Triple{{Subject: a, Predicate: p, Object: v}}); err != nil {
		t.Fatal(err)
	}

	it, err := g.Find(ctx, driver.SubjectPattern(a))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	var got []driver.Triple
	for it.Next() {
		got = append(got, it.Triple())
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d triples, want 1: %v", len(got), got)
	}

	ok, err := g.Exists(ctx, driver.SubjectPattern(driver.URI("http://example/nope")))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected Exists to report false for an absent subject")
	}
}
