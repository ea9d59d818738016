package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/ddx/internal/operand"
	"github.com/bamsammich/ddx/internal/stats"
)

// plainPresenter writes progress lines and read errors as they happen.
// On a TTY progress lines are rewritten in place with a carriage return.
type plainPresenter struct {
	w        io.Writer
	stats    *stats.Collector
	status   operand.Status
	tty      bool
	lineOpen bool
}

func (p *plainPresenter) Run(events <-chan Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	p.closeLine()
	return nil
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case Progress:
		if p.status == operand.StatusProgress {
			p.printProgress(ev)
		}
	case ReadFailed:
		p.closeLine()
		fmt.Fprintf(p.w, "ddx: %s\n", readFailure(ev))
	case StateChanged:
		// state changes are logged by the engine
	}
}

func (p *plainPresenter) printProgress(ev Event) {
	snap := p.stats.Snapshot()
	line := fmt.Sprintf("%d bytes copied, %s, %s",
		ev.Bytes, FormatDuration(snap.Elapsed), FormatRate(snap.Rate()))
	if p.tty {
		fmt.Fprintf(p.w, "\r%s", line)
		p.lineOpen = true
		return
	}
	fmt.Fprintln(p.w, line)
}

// closeLine terminates an in-place progress line.
func (p *plainPresenter) closeLine() {
	if p.lineOpen {
		fmt.Fprintln(p.w)
		p.lineOpen = false
	}
}

func (p *plainPresenter) Summary() string {
	return FormatSummary(p.stats.Finish(), p.status)
}

func readFailure(ev Event) string {
	msg := "read error"
	if ev.Error != nil {
		msg = ev.Error.Error()
	}
	return fmt.Sprintf("error reading block %d: %s", ev.Block, msg)
}
