// Package conv implements the conv= keywords: the per-block byte transforms
// (character set, case, block/unblock, swab, sync) and the flags that change
// how the output is opened or how read failures propagate.
package conv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownConversion     = errors.New("unknown conversion")
	ErrDuplicateConversion   = errors.New("duplicate conversion")
	ErrConflictingConversion = errors.New("conflicting conversions")
)

// Conversion is a single conv= keyword.
type Conversion uint32

// The declaration order is the canonical order used when listing a Set.
const (
	ASCII Conversion = 1 << iota
	EBCDIC
	IBM
	LCase
	UCase
	Block
	Unblock
	Swab
	Sync
	NoError
	NoTrunc
	NoCreat
	Excl
	FSync
	FDataSync
	Sparse

	sentinel
)

var names = map[Conversion]string{
	ASCII:     "ascii",
	EBCDIC:    "ebcdic",
	IBM:       "ibm",
	LCase:     "lcase",
	UCase:     "ucase",
	Block:     "block",
	Unblock:   "unblock",
	Swab:      "swab",
	Sync:      "sync",
	NoError:   "noerror",
	NoTrunc:   "notrunc",
	NoCreat:   "nocreat",
	Excl:      "excl",
	FSync:     "fsync",
	FDataSync: "fdatasync",
	Sparse:    "sparse",
}

// conflicts lists groups of which at most one member may be requested.
var conflicts = []Set{
	Set(ASCII | EBCDIC | IBM),
	Set(LCase | UCase),
	Set(Block | Unblock),
	Set(Excl | NoCreat),
}

func (c Conversion) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "unknown"
}

// Lookup returns the conversion named by keyword.
func Lookup(keyword string) (Conversion, error) {
	for c, n := range names {
		if n == keyword {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownConversion, keyword)
}

// Set is an unordered collection of conversions. The order in which keywords
// were given never affects the result of applying a Set.
type Set uint32

// All holds every known conversion. Its String is the keyword list in
// canonical order.
const All = Set(sentinel - 1)

// Has reports whether every conversion in c is present.
func (s Set) Has(c Conversion) bool {
	return s&Set(c) == Set(c)
}

// Add returns s with c added, rejecting a keyword that is already present.
func (s Set) Add(c Conversion) (Set, error) {
	if s.Has(c) {
		return s, fmt.Errorf("%w %q", ErrDuplicateConversion, c)
	}
	return s | Set(c), nil
}

// Validate rejects sets holding more than one member of a conflict group.
func (s Set) Validate() error {
	for _, group := range conflicts {
		present := s & group
		if present&(present-1) != 0 {
			return fmt.Errorf("%w: %s", ErrConflictingConversion, present)
		}
	}
	return nil
}

// Reframes reports whether block or unblock is requested.
func (s Set) Reframes() bool {
	return s&Set(Block|Unblock) != 0
}

// List returns the conversions in s in canonical order.
func (s Set) List() []Conversion {
	var out []Conversion
	for c := Conversion(1); c < sentinel; c <<= 1 {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s Set) String() string {
	list := s.List()
	parts := make([]string, len(list))
	for i, c := range list {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// Parse builds a validated Set from a comma-separated keyword list.
func Parse(list string) (Set, error) {
	s, err := Set(0).Merge(list)
	if err != nil {
		return 0, err
	}
	return s, s.Validate()
}

// Merge adds every keyword of a comma-separated list to s. Conflicts are not
// checked here; call Validate once all lists have been merged.
func (s Set) Merge(list string) (Set, error) {
	for _, kw := range strings.Split(list, ",") {
		c, err := Lookup(kw)
		if err != nil {
			return s, err
		}
		if s, err = s.Add(c); err != nil {
			return s, err
		}
	}
	return s, nil
}
