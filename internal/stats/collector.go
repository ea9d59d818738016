package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Collector accumulates transfer counters. The engine writes; a presenter
// may read Snapshot concurrently for progress output.
type Collector struct {
	fullIn     atomic.Uint64
	partialIn  atomic.Uint64
	fullOut    atomic.Uint64
	partialOut atomic.Uint64
	truncated  atomic.Uint64
	bytes      atomic.Uint64
	readErrors atomic.Uint64
	startTime  time.Time

	finishOnce sync.Once
	final      Snapshot
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FullIn     uint64
	PartialIn  uint64
	FullOut    uint64
	PartialOut uint64
	Truncated  uint64
	Bytes      uint64
	ReadErrors uint64
	Elapsed    time.Duration
}

// AddIn records one input block of n bytes read against a block size of bs.
func (c *Collector) AddIn(n, bs int) {
	if n >= bs {
		c.fullIn.Add(1)
	} else {
		c.partialIn.Add(1)
	}
}

// AddOut records one output block of n bytes written against a block size of bs.
func (c *Collector) AddOut(n, bs int) {
	if n >= bs {
		c.fullOut.Add(1)
	} else {
		c.partialOut.Add(1)
	}
	c.bytes.Add(uint64(n)) //nolint:gosec // G115: n is a non-negative buffer length
}

func (c *Collector) AddTruncated(n uint64)  { c.truncated.Add(n) }
func (c *Collector) AddReadErrors(n uint64) { c.readErrors.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FullIn:     c.fullIn.Load(),
		PartialIn:  c.partialIn.Load(),
		FullOut:    c.fullOut.Load(),
		PartialOut: c.partialOut.Load(),
		Truncated:  c.truncated.Load(),
		Bytes:      c.bytes.Load(),
		ReadErrors: c.readErrors.Load(),
		Elapsed:    c.Elapsed(),
	}
}

// Finish freezes the counters into the final Snapshot. Only the first call
// takes effect; later calls return the same value.
func (c *Collector) Finish() Snapshot {
	c.finishOnce.Do(func() {
		c.final = c.Snapshot()
	})
	return c.final
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// RecordsIn formats the input record counts as "full+partial".
func (s Snapshot) RecordsIn() string {
	return fmt.Sprintf("%d+%d", s.FullIn, s.PartialIn)
}

// RecordsOut formats the output record counts as "full+partial".
func (s Snapshot) RecordsOut() string {
	return fmt.Sprintf("%d+%d", s.FullOut, s.PartialOut)
}

// Rate returns the average bytes per second over the snapshot's lifetime.
func (s Snapshot) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Elapsed.Seconds()
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"in=%s out=%s truncated=%d bytes=%d read_errors=%d",
		s.RecordsIn(), s.RecordsOut(), s.Truncated, s.Bytes, s.ReadErrors,
	)
}
