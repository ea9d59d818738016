package engine

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// digest accumulates a BLAKE3 hash of every byte handed to the output,
// holes included. A nil *digest is disabled.
type digest struct {
	h *blake3.Hasher
}

func newDigest(enabled bool) *digest {
	if !enabled {
		return nil
	}
	return &digest{h: blake3.New()}
}

func (d *digest) add(b []byte) {
	if d == nil {
		return
	}
	_, _ = d.h.Write(b) //nolint:errcheck // hash.Hash never returns an error
}

// Hex returns the hex-encoded digest, or "" when disabled.
func (d *digest) Hex() string {
	if d == nil {
		return ""
	}
	return hex.EncodeToString(d.h.Sum(nil))
}
