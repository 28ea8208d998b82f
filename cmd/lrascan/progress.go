package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/farcloser/lrascan/internal/executor"
)

// progressPrinter renders executor progress. On a terminal it rewrites a single status line, otherwise it prints
// one line per completed file so that logs stay readable.
type progressPrinter struct {
	mutex       sync.Mutex
	out         io.Writer
	interactive bool
	dirty       bool
}

func (p *progressPrinter) report(progress executor.Progress) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	status := "ok"
	if !progress.Outcome.OK() {
		status = progress.Outcome.Kind.String()
	}

	if p.interactive {
		fmt.Fprintf(p.out, "\r\033[K[%d/%d] %s (%s)", progress.Done, progress.Total, progress.Outcome.DisplayPath, status)
		p.dirty = true

		return
	}

	if progress.Outcome.OK() {
		fmt.Fprintf(p.out, "[%d/%d] %s: %.1f LU\n",
			progress.Done, progress.Total, progress.Outcome.DisplayPath, progress.Outcome.LRA)

		return
	}

	fmt.Fprintf(p.out, "[%d/%d] %s: %s\n", progress.Done, progress.Total, progress.Outcome.DisplayPath, status)
}

// finish terminates the status line, if one was drawn.
func (p *progressPrinter) finish() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.dirty {
		fmt.Fprintln(p.out)
		p.dirty = false
	}
}
