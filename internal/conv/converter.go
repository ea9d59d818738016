package conv

// Converter applies a Set to a stream of input blocks. Stages run in a fixed
// order: character set and case, block/unblock, swab, sync padding.
// Block and unblock records may span input blocks, so a Converter is
// stateful and must see every block of one transfer in order.
type Converter struct {
	set   Set
	ibs   int
	cbs   int
	table *[256]byte

	newline byte
	space   byte

	// block: length of the record being built, and whether it has already
	// been counted as truncated.
	col        int
	truncating bool
	// unblock: bytes of the fixed-width record being collected.
	record []byte

	truncated uint64

	in  []byte
	out []byte
}

// NewConverter returns a Converter for input blocks of ibs bytes and
// conversion records of cbs bytes. cbs is only consulted for block/unblock.
func NewConverter(set Set, ibs, cbs int) *Converter {
	nl, sp := framing(set)
	return &Converter{
		set:     set,
		ibs:     ibs,
		cbs:     cbs,
		table:   translation(set),
		newline: nl,
		space:   sp,
	}
}

// Truncated returns how many block records were cut to cbs bytes.
func (c *Converter) Truncated() uint64 { return c.truncated }

// Apply converts one input block. When final is set, partial block/unblock
// records are flushed after block; block may be empty in that case.
// The returned slice is owned by the Converter and valid until the next call.
func (c *Converter) Apply(block []byte, final bool) []byte {
	short := 0
	if c.set.Has(Sync) && len(block) > 0 && len(block) < c.ibs {
		short = c.ibs - len(block)
	}

	data := c.translate(block)

	if c.set.Reframes() {
		// Padding becomes record text here, so it has to precede
		// re-framing or unblock would emit it after the newline.
		data = appendFill(data, c.space, short)
		short = 0
		data = c.reframe(data, final)
	}

	if c.set.Has(Swab) {
		swab(data)
	}

	return appendFill(data, 0, short)
}

func (c *Converter) translate(block []byte) []byte {
	c.in = append(c.in[:0], block...)
	if c.table != nil {
		for i, b := range c.in {
			c.in[i] = c.table[b]
		}
	}
	return c.in
}

func (c *Converter) reframe(data []byte, final bool) []byte {
	c.out = c.out[:0]
	if c.set.Has(Block) {
		c.block(data, final)
	} else {
		c.unblock(data, final)
	}
	return c.out
}

func (c *Converter) block(data []byte, final bool) {
	for _, b := range data {
		switch {
		case b == c.newline:
			c.out = appendFill(c.out, c.space, c.cbs-c.col)
			c.col, c.truncating = 0, false
		case c.col < c.cbs:
			c.out = append(c.out, b)
			c.col++
		case !c.truncating:
			c.truncated++
			c.truncating = true
		}
	}
	if final && c.col > 0 {
		c.out = appendFill(c.out, c.space, c.cbs-c.col)
		c.col, c.truncating = 0, false
	}
}

func (c *Converter) unblock(data []byte, final bool) {
	for _, b := range data {
		c.record = append(c.record, b)
		if len(c.record) == c.cbs {
			c.emitRecord()
		}
	}
	if final && len(c.record) > 0 {
		c.emitRecord()
	}
}

func (c *Converter) emitRecord() {
	end := len(c.record)
	for end > 0 && c.record[end-1] == c.space {
		end--
	}
	c.out = append(c.out, c.record[:end]...)
	c.out = append(c.out, c.newline)
	c.record = c.record[:0]
}

func swab(data []byte) {
	for i := 0; i+1 < len(data); i += 2 {
		data[i], data[i+1] = data[i+1], data[i]
	}
}

func appendFill(dst []byte, b byte, n int) []byte {
	for range n {
		dst = append(dst, b)
	}
	return dst
}
