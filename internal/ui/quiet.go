package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/ddx/internal/stats"
)

// quietPresenter prints nothing but tolerated read errors.
type quietPresenter struct {
	w     io.Writer
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for ev := range events {
		if ev.Type == ReadFailed {
			fmt.Fprintf(p.w, "ddx: %s\n", readFailure(ev))
		}
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	p.stats.Finish()
	return ""
}
