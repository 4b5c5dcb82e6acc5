package itss

import "github.com/google/uuid"

// cursor is a positional reader over a fixed byte buffer with a sticky
// error flag: once any primitive read runs past the end of the buffer, the
// flag is set and every subsequent read becomes a no-op returning the zero
// value. Callers decode a whole structure field-by-field and check err
// exactly once at the end, rather than branching after every field.
type cursor struct {
	buf []byte
	pos int
	err bool
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) bytesLeft() int {
	return len(c.buf) - c.pos
}

// take returns the next n bytes and advances the cursor, or sets err and
// returns nil if n bytes are not available.
func (c *cursor) take(n int) []byte {
	if c.err || n < 0 || c.bytesLeft() < n {
		c.err = true
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) u8() uint8 {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *cursor) u16() uint16 {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func (c *cursor) u32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func (c *cursor) u64() uint64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v <<= 8
		v |= uint64(b[i])
	}
	return v
}

func (c *cursor) i32() int32 { return int32(c.u32()) }
func (c *cursor) i64() int64 { return int64(c.u64()) }

// bytesN copies n raw bytes out of the cursor.
func (c *cursor) bytesN(n int) []byte {
	b := c.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// uuidField reads a 16-byte UUID, treated as an opaque copy (no version or
// variant validation — the format never checks these fields either).
func (c *cursor) uuidField() uuid.UUID {
	b := c.take(16)
	var u uuid.UUID
	if b == nil {
		return u
	}
	copy(u[:], b)
	return u
}

// str reads n raw bytes and returns them as a string, without interpreting
// any trailing NUL.
func (c *cursor) str(n int) string {
	b := c.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// cword reads a variable-length base-128 big-endian integer: each byte
// contributes its low 7 bits, and the top bit signals that another byte
// follows. Used only for entry records in PMGL pages.
func (c *cursor) cword() int64 {
	var res int64
	for {
		b := c.take(1)
		if b == nil {
			return 0
		}
		v := b[0]
		res <<= 7
		if v >= 0x80 {
			res += int64(v & 0x7f)
			continue
		}
		return res + int64(v)
	}
}

// commit reports whether the cursor ever ran past the end of its buffer.
// Call it once after decoding a whole structure.
func (c *cursor) commit() error {
	if c.err {
		return newErr(KindMalformed, "unmarshal", "", errShortBuffer)
	}
	return nil
}
