package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ddx/internal/event"
	"github.com/bamsammich/ddx/internal/operand"
	"github.com/bamsammich/ddx/internal/stats"
)

func runPresenter(t *testing.T, p Presenter, evs ...Event) {
	t.Helper()
	events := make(chan Event, len(evs))
	for _, ev := range evs {
		events <- ev
	}
	close(events)
	require.NoError(t, p.Run(events))
}

func TestPlainPresenterProgressLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(Config{Writer: &out, Stats: stats.NewCollector(), Status: operand.StatusProgress})

	runPresenter(t, p,
		Event{Type: event.Progress, Block: 10, Bytes: 5120},
		Event{Type: event.Progress, Block: 20, Bytes: 10240},
	)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "5120 bytes copied, "))
	assert.True(t, strings.HasPrefix(lines[1], "10240 bytes copied, "))
	assert.NotContains(t, out.String(), "\r")
}

func TestPlainPresenterProgressTTY(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(Config{
		Writer: &out, Stats: stats.NewCollector(),
		Status: operand.StatusProgress, IsTTY: true,
	})

	runPresenter(t, p,
		Event{Type: event.Progress, Bytes: 512},
		Event{Type: event.Progress, Bytes: 1024},
	)

	s := out.String()
	assert.Equal(t, 2, strings.Count(s, "\r"))
	assert.True(t, strings.HasSuffix(s, "\n"), "open progress line is terminated")
}

func TestPlainPresenterIgnoresProgressWithoutStatusProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(Config{Writer: &out, Stats: stats.NewCollector()})

	runPresenter(t, p,
		Event{Type: event.StateChanged, State: "transferring"},
		Event{Type: event.Progress, Bytes: 512},
	)

	assert.Empty(t, out.String())
}

func TestPlainPresenterReadFailed(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(Config{Writer: &out, Stats: stats.NewCollector()})

	runPresenter(t, p, Event{Type: event.ReadFailed, Block: 3, Error: errors.New("input/output error")})

	assert.Equal(t, "ddx: error reading block 3: input/output error\n", out.String())
}

func TestPlainPresenterSummary(t *testing.T) {
	collector := stats.NewCollector()
	collector.AddIn(512, 512)
	collector.AddOut(512, 512)

	p := NewPresenter(Config{Writer: &bytes.Buffer{}, Stats: collector, Status: operand.StatusNoXfer})
	runPresenter(t, p)

	assert.Equal(t, "1+0 records in\n1+0 records out\n", p.Summary())
}

func TestQuietPresenter(t *testing.T) {
	var out bytes.Buffer
	collector := stats.NewCollector()
	collector.AddIn(512, 512)
	p := NewPresenter(Config{Writer: &out, Stats: collector, Status: operand.StatusNone})

	runPresenter(t, p,
		Event{Type: event.Progress, Bytes: 512},
		Event{Type: event.ReadFailed, Block: 7, Error: assert.AnError},
	)

	assert.Empty(t, p.Summary())
	assert.Equal(t, "ddx: error reading block 7: "+assert.AnError.Error()+"\n", out.String())
	assert.Equal(t, uint64(1), collector.Finish().FullIn)
}
