// Package console renders import progress and summaries for terminal users.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// Progress draws a single-line progress bar that is redrawn in place.
type Progress struct {
	mu    sync.Mutex
	out   io.Writer
	bar   progress.Model
	total int
	done  int
}

func NewProgress(out io.Writer) *Progress {
	return &Progress{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (p *Progress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.done = 0
	p.render()
}

func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done < p.total {
		p.done++
	}
	p.render()
}

func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out)
}

func (p *Progress) render() {
	percent := 1.0
	if p.total > 0 {
		percent = float64(p.done) / float64(p.total)
	}
	fmt.Fprintf(p.out, "\r%s %d/%d", p.bar.ViewAs(percent), p.done, p.total)
}
