package ui

import (
	"io"

	"github.com/bamsammich/ddx/internal/operand"
	"github.com/bamsammich/ddx/internal/stats"
)

// Presenter consumes engine events and renders status output.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final transfer summary, or "" when nothing
	// should be printed.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer io.Writer // status output, normally stderr
	Stats  *stats.Collector
	Status operand.Status
	IsTTY  bool
}

// NewPresenter creates the appropriate presenter for the status mode.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Status == operand.StatusNone {
		return &quietPresenter{w: cfg.Writer, stats: cfg.Stats}
	}
	return &plainPresenter{
		w:      cfg.Writer,
		stats:  cfg.Stats,
		status: cfg.Status,
		tty:    cfg.IsTTY,
	}
}
