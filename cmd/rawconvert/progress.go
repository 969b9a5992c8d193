// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/rawconvert/internal/convert"
	"github.com/pdiddy/rawconvert/pkg/types"
)

const clearLine = "\r\033[K"

var _ convert.Observer = (*progressUI)(nil)

// progressUI shows the "Converting: i/N" counter and passes worker status
// lines through. On a terminal the counter is redrawn in place below the
// status lines; otherwise every update is its own line.
type progressUI struct {
	mu     sync.Mutex
	w      io.Writer
	tty    bool
	done   int
	total  int
	drawn  bool
	failed []types.ConversionResult
}

func newProgressUI(w io.Writer, tty bool) *progressUI {
	return &progressUI{w: w, tty: tty}
}

// Write prints worker status lines without garbling the counter.
func (p *progressUI) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drawn {
		fmt.Fprint(p.w, clearLine)
		p.drawn = false
	}
	n, err := p.w.Write(b)
	if err == nil && p.tty && p.total > 0 && p.done < p.total {
		p.draw()
	}
	return n, err
}

func (p *progressUI) OnProgress(done, total int, res types.ConversionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done, p.total = done, total
	if p.tty {
		if p.drawn {
			fmt.Fprint(p.w, clearLine)
		}
		p.draw()
		return
	}
	fmt.Fprintf(p.w, "Converting: %d/%d\n", done, total)
}

func (p *progressUI) OnError(res types.ConversionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = append(p.failed, res)
}

func (p *progressUI) OnCompleted(rep types.BatchReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
	if len(p.failed) > 0 {
		fmt.Fprintf(p.w, "%d file(s) could not be converted:\n", len(p.failed))
		for _, r := range p.failed {
			fmt.Fprintf(p.w, "  %s: %s\n", r.Source.Path, r.Reason)
		}
	}
}

// draw prints the counter without a trailing newline. Callers hold mu.
func (p *progressUI) draw() {
	fmt.Fprintf(p.w, "Converting: %d/%d", p.done, p.total)
	p.drawn = true
}
