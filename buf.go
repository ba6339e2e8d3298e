package pgproto

import "encoding/binary"

// Cursor is a non-destructive read cursor over a byte slice: Mark/Reset let
// a caller attempt a parse, discover there isn't enough data yet, and
// rewind to the mark instead of losing bytes already advanced past. This is
// what lets the streaming decoder retry a frame header once more bytes
// arrive from upstream without copying the unconsumed remainder.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor wraps b for reading. b is not copied; the caller must not
// mutate it while the Cursor is in use.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Len reports the number of unread bytes.
func (c *Cursor) Len() int { return len(c.b) - c.pos }

// Mark returns an opaque position that Reset can rewind to.
func (c *Cursor) Mark() int { return c.pos }

// Reset rewinds the cursor to a position previously returned by Mark.
func (c *Cursor) Reset(mark int) { c.pos = mark }

// Remainder returns the unread tail, starting at the current position.
func (c *Cursor) Remainder() []byte { return c.b[c.pos:] }

// Byte consumes and returns one byte. ok is false if the cursor is
// exhausted; the position is left unchanged in that case.
func (c *Cursor) Byte() (v byte, ok bool) {
	if c.Len() < 1 {
		return 0, false
	}
	v = c.b[c.pos]
	c.pos++
	return v, true
}

// Int32 consumes a big-endian 4-byte signed integer.
func (c *Cursor) Int32() (v int32, ok bool) {
	if c.Len() < 4 {
		return 0, false
	}
	v = int32(binary.BigEndian.Uint32(c.b[c.pos : c.pos+4]))
	c.pos += 4
	return v, true
}

// Split consumes and returns the next n bytes without copying.
func (c *Cursor) Split(n int) (v []byte, ok bool) {
	if n < 0 || c.Len() < n {
		return nil, false
	}
	v = c.b[c.pos : c.pos+n]
	c.pos += n
	return v, true
}

// reader decodes the fields of a single, already-framed message payload.
// Unlike Cursor it fails hard instead of asking for more bytes: once the
// decoder has sliced off exactly contentLength bytes for a message, that
// slice must be self-contained.
type reader struct {
	c *Cursor
}

func newFieldReader(payload []byte) *reader {
	return &reader{c: NewCursor(payload)}
}

func (r *reader) int16() (int16, error) {
	hi, ok1 := r.c.Byte()
	lo, ok2 := r.c.Byte()
	if !ok1 || !ok2 {
		return 0, errShortMessage
	}
	return int16(uint16(hi)<<8 | uint16(lo)), nil
}

func (r *reader) int32() (int32, error) {
	v, ok := r.c.Int32()
	if !ok {
		return 0, errShortMessage
	}
	return v, nil
}

func (r *reader) oidVal() (uint32, error) {
	v, err := r.int32()
	return uint32(v), err
}

func (r *reader) byte() (byte, error) {
	v, ok := r.c.Byte()
	if !ok {
		return 0, errShortMessage
	}
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	v, ok := r.c.Split(n)
	if !ok {
		return nil, errShortMessage
	}
	return v, nil
}

// cstring reads a NUL-terminated run and decodes it with cs. Per spec.md's
// open question about getCString: unlike the reference implementation this
// fails explicitly instead of silently returning the rest of the buffer
// when no terminator is found.
func (r *reader) cstring(cs Charset) (string, error) {
	rest := r.c.Remainder()
	i := indexByte(rest, 0)
	if i < 0 {
		return "", errUnterminatedString
	}
	raw, _ := r.c.Split(i + 1)
	return cs.Decode(raw[:i])
}

func (r *reader) remaining() []byte { return r.c.Remainder() }

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// writer accumulates the payload of one message, to be handed to
// frameMessage/lengthPrefix once complete.
type writer struct {
	buf []byte
}

func newWriter() *writer { return &writer{} }

func (w *writer) byte(v byte) { w.buf = append(w.buf, v) }

func (w *writer) int16(v int16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

func (w *writer) int32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) bytes(v []byte) { w.buf = append(w.buf, v...) }

// cstring encodes s with cs and appends the NUL terminator.
func (w *writer) cstring(cs Charset, s string) error {
	enc, err := cs.Encode(s)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, enc...)
	w.buf = append(w.buf, 0)
	return nil
}

func (w *writer) bytesValue() []byte { return w.buf }

// lengthPrefix implements the byte codec primitive from spec.md §4.1: given
// a built payload of N bytes, emit an i32 of N+4 followed by the payload.
func lengthPrefix(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(out[:4], uint32(len(payload)+4))
	copy(out[4:], payload)
	return out
}

// frameMessage prepends a type byte and length prefix to payload, producing
// the wire form of every non-version-zero frontend and backend message:
// [type:i8][length:i32][payload].
func frameMessage(typeByte byte, payload []byte) []byte {
	out := make([]byte, 1+4+len(payload))
	out[0] = typeByte
	binary.BigEndian.PutUint32(out[1:5], uint32(len(payload)+4))
	copy(out[5:], payload)
	return out
}

// emptyFrame returns the 5-byte encoding of a message with the given type
// byte and no payload: [type, 0, 0, 0, 4]. Each call builds a new slice;
// nothing is cached.
func emptyFrame(typeByte byte) []byte {
	return []byte{typeByte, 0, 0, 0, 4}
}
