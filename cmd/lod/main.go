// Command lod is a minimal REPL over the lod resolver, reproducing the
// command set sketched in the original liblod example programs: bare input
// resolves a URI, and "." commands toggle session state or inspect the
// last result.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quay/zlog"

	"github.com/lod-project/lod"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose hop tracing")
	flag.Parse()

	ctx, done := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		<-ch
		done()
	}()

	r := &repl{
		ctx:   ctx,
		lod:   lod.New(lod.WithVerbose(*verbose)),
		flags: lod.FetchAbsent,
		out:   os.Stdout,
	}
	if err := r.run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}

// repl holds the CLI harness's session state: the mode most recently
// selected by ".fetch", the FETCH_PRIMARY_TOPIC toggle from ".primary",
// and the handle returned by the last successful resolution.
type repl struct {
	ctx     context.Context
	lod     *lod.Context
	flags   lod.FetchFlags
	primary bool
	last    *lod.SubjectHandle
	out     *os.File
}

func (r *repl) run(in *os.File) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintln(r.out, "lod resolver REPL. .help for commands.")
	for {
		fmt.Fprint(r.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if r.command(line) {
				return nil
			}
			continue
		}
		r.resolve(line)
	}
}

// command handles a "." command. It reports whether the REPL should exit.
func (r *repl) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".help":
		fmt.Fprintln(r.out, ".help .quit .exit .reset .dump .doc .primary .fetch never|always|cond[itional]|absent .follow")
		fmt.Fprintln(r.out, "bare input is resolved as a URI")
	case ".quit", ".exit":
		return true
	case ".reset":
		r.lod = lod.New(lod.WithVerbose(true))
		r.last = nil
	case ".dump":
		r.dump()
	case ".doc":
		fmt.Fprintln(r.out, r.lod.Document())
	case ".primary":
		r.primary = !r.primary
		fmt.Fprintf(r.out, "primary-topic indirection: %v\n", r.primary)
	case ".fetch":
		if len(fields) < 2 {
			fmt.Fprintln(r.out, "usage: .fetch never|always|cond[itional]|absent")
			return false
		}
		r.setFetchMode(fields[1])
	case ".follow":
		fmt.Fprintln(r.out, "last document's subject:", r.lod.Subject())
	default:
		fmt.Fprintf(r.out, "unknown command %q\n", fields[0])
	}
	return false
}

func (r *repl) setFetchMode(mode string) {
	switch mode {
	case "never":
		r.flags = lod.FetchNever
	case "always":
		r.flags = lod.FetchAlways
	case "cond", "conditional", "absent":
		r.flags = lod.FetchAbsent
	default:
		fmt.Fprintf(r.out, "unknown fetch mode %q\n", mode)
	}
}

func (r *repl) resolve(uri string) {
	ctx := zlog.ContextWithValues(r.ctx, "component", "cmd/lod")
	flags := r.flags
	if r.primary {
		flags |= lod.FetchPrimaryTopic
	}
	h, err := r.lod.Resolve(ctx, uri, flags)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if h == nil {
		fmt.Fprintln(r.out, "absent")
		return
	}
	r.last = h
	r.dump()
}

func (r *repl) dump() {
	if r.last == nil {
		fmt.Fprintln(r.out, "no subject")
		return
	}
	fmt.Fprintf(r.out, "subject: %s\n", r.last.URI())
	it, err := r.last.Triples(r.ctx)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	defer it.Close()
	for it.Next() {
		fmt.Fprintln(r.out, it.Triple())
	}
	if err := it.Err(); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
}
