package conv

import "golang.org/x/text/encoding/charmap"

// ebcdic and ibm translate ASCII to IBM code pages 037 and 1047; ascii is
// the inverse of code page 037. Both code pages are permutations of
// Latin-1, so every table is a bijection over all 256 byte values.
var (
	toEBCDIC = encodeTable(charmap.CodePage037)
	toIBM    = encodeTable(charmap.CodePage1047)
	toASCII  = decodeTable(charmap.CodePage037)
)

const substitute = 0x3f

func encodeTable(m *charmap.Charmap) *[256]byte {
	var t [256]byte
	for i := range t {
		b, ok := m.EncodeRune(rune(i))
		if !ok {
			b = substitute
		}
		t[i] = b
	}
	return &t
}

func decodeTable(m *charmap.Charmap) *[256]byte {
	var t [256]byte
	for i := range t {
		r := m.DecodeByte(byte(i))
		if r > 0xff {
			r = '?'
		}
		t[i] = byte(r)
	}
	return &t
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// translation composes character set and case conversion into one table.
// Case mapping is always applied to the ASCII side: before encoding for
// ebcdic/ibm, after decoding for ascii. Returns nil when s translates nothing.
func translation(s Set) *[256]byte {
	caseMap := func(b byte) byte { return b }
	switch {
	case s.Has(LCase):
		caseMap = lower
	case s.Has(UCase):
		caseMap = upper
	}

	var charset *[256]byte
	encoding := false
	switch {
	case s.Has(ASCII):
		charset = toASCII
	case s.Has(EBCDIC):
		charset, encoding = toEBCDIC, true
	case s.Has(IBM):
		charset, encoding = toIBM, true
	}

	if charset == nil && s&Set(LCase|UCase) == 0 {
		return nil
	}

	var t [256]byte
	for i := range t {
		b := byte(i)
		switch {
		case charset == nil:
			b = caseMap(b)
		case encoding:
			b = charset[caseMap(b)]
		default:
			b = caseMap(charset[b])
		}
		t[i] = b
	}
	return &t
}

// framing returns the newline and space bytes as they appear after
// translation, which is what block and unblock operate on.
func framing(s Set) (newline, space byte) {
	switch {
	case s.Has(EBCDIC):
		return toEBCDIC['\n'], toEBCDIC[' ']
	case s.Has(IBM):
		return toIBM['\n'], toIBM[' ']
	default:
		return '\n', ' '
	}
}
