// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// progress.go paints a single running line on the terminal while the
// pool works. There is exactly one painter per run; workers never write
// to the terminal themselves.

package parallel

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Progress repaints an "Executed files: n/total" line in place.
type Progress struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	painted bool
}

// NewProgress returns a painter writing to out. Coloring follows
// NO_COLOR / HURL_NO_COLOR.
func NewProgress(out io.Writer) *Progress {
	_, noColor := os.LookupEnv("NO_COLOR")
	_, hurlNoColor := os.LookupEnv("HURL_NO_COLOR")
	return &Progress{out: out, color: !noColor && !hurlNoColor}
}

// Paint redraws the running line.
func (p *Progress) Paint(completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	totalText := "?"
	if total >= 0 {
		totalText = fmt.Sprintf("%d", total)
	}
	line := fmt.Sprintf("Executed files: %d/%s", completed, totalText)
	if p.color {
		line = color.New(color.Bold).Sprint(line)
	}
	if p.painted {
		fmt.Fprint(p.out, "\r\x1b[K")
	}
	fmt.Fprint(p.out, line)
	p.painted = true
}

// Done terminates the running line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.painted {
		fmt.Fprintln(p.out)
		p.painted = false
	}
}
