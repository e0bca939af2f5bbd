package trigram

import (
	"errors"
	"fmt"
)

// ErrDecode reports a byte sequence that is not a well-formed multi-byte unit.
var ErrDecode = errors.New("trigram: malformed multi-byte sequence")

// space is the unit every word boundary and collapsed punctuation byte maps to.
const space = " "

// asciiUnits maps every ASCII byte to the unit it produces.
var asciiUnits = func() (units [0x80]string) {
	for b := range units {
		c := byte(b)
		switch {
		case c >= 'A' && c <= 'Z':
			units[b] = string(c + 'a' - 'A')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '\'':
			units[b] = string(c)
		default:
			units[b] = space
		}
	}
	return units
}()

// cursor walks a string one text unit at a time.
type cursor struct {
	src string
	off int
}

func (c *cursor) eof() bool {
	return c.off >= len(c.src)
}

// next decodes the unit at the current offset and advances past it.
// The width comes from the high bits of the lead byte only.
func (c *cursor) next() (string, error) {
	lead := c.src[c.off]
	var width int
	switch {
	case lead < 0x80:
		c.off++
		return asciiUnits[lead], nil
	case lead>>5 == 0x06:
		width = 2
	case lead>>4 == 0x0E:
		width = 3
	case lead>>3 == 0x1E:
		width = 4
	default:
		return "", fmt.Errorf("%w: invalid lead byte 0x%02x at offset %d", ErrDecode, lead, c.off)
	}

	if c.off+width > len(c.src) {
		return "", fmt.Errorf("%w: truncated %d-byte sequence at offset %d", ErrDecode, width, c.off)
	}
	for i := 1; i < width; i++ {
		if c.src[c.off+i]&0xC0 != 0x80 {
			return "", fmt.Errorf("%w: bad continuation byte 0x%02x at offset %d", ErrDecode, c.src[c.off+i], c.off+i)
		}
	}

	unit := c.src[c.off : c.off+width]
	c.off += width

	// À..Þ (U+00C0..U+00DE) except × are folded to their lower-case letters,
	// which sit exactly 0x20 higher in the second byte.
	if width == 2 && lead == 0xC3 {
		if b := unit[1]; b >= 0x80 && b <= 0x9E && b != 0x97 {
			return string([]byte{lead, b + 0x20}), nil
		}
	}
	return unit, nil
}

// Units decodes text into its text units.
func Units(text string) ([]string, error) {
	units := make([]string, 0, len(text))
	c := cursor{src: text}
	for !c.eof() {
		u, err := c.next()
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}
