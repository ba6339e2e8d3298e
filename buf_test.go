package pgproto

import (
	"bytes"
	"testing"
)

func TestCursorMarkReset(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4, 5})
	mark := c.Mark()

	if _, ok := c.Split(2); !ok {
		t.Fatalf("Split(2): expected ok")
	}
	if _, ok := c.Int32(); ok {
		t.Fatalf("Int32: expected not enough bytes after consuming two")
	}
	c.Reset(mark)
	if c.Len() != 5 {
		t.Fatalf("Len after Reset = %d, want 5", c.Len())
	}

	v, ok := c.Int32()
	if !ok || v != 0x01020304 {
		t.Fatalf("Int32 = %d, %v, want 0x01020304, true", v, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("Len after Int32 = %d, want 1", c.Len())
	}
}

func TestCursorSplitInsufficientBytes(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	if _, ok := c.Split(4); ok {
		t.Fatalf("Split(4) on a 3-byte cursor should fail")
	}
	if c.Len() != 3 {
		t.Fatalf("a failed Split must not advance the cursor, Len = %d", c.Len())
	}
}

func TestLengthPrefix(t *testing.T) {
	got := lengthPrefix([]byte("abc"))
	want := []byte{0, 0, 0, 7, 'a', 'b', 'c'}
	if !bytes.Equal(got, want) {
		t.Fatalf("lengthPrefix = %v, want %v", got, want)
	}
}

func TestFrameMessage(t *testing.T) {
	got := frameMessage('Q', []byte("select 1\x00"))
	if got[0] != 'Q' {
		t.Fatalf("type byte = %q, want 'Q'", got[0])
	}
	length := int(got[1])<<24 | int(got[2])<<16 | int(got[3])<<8 | int(got[4])
	if length != len("select 1\x00")+4 {
		t.Fatalf("length = %d, want %d", length, len("select 1\x00")+4)
	}
}

func TestEmptyFrame(t *testing.T) {
	got := emptyFrame('X')
	want := []byte{'X', 0, 0, 0, 4}
	if !bytes.Equal(got, want) {
		t.Fatalf("emptyFrame('X') = %v, want %v", got, want)
	}
}

func TestFieldReaderCStringUnterminated(t *testing.T) {
	r := newFieldReader([]byte("no terminator"))
	if _, err := r.cstring(UTF8); err != errUnterminatedString {
		t.Fatalf("cstring on unterminated bytes: err = %v, want errUnterminatedString", err)
	}
}

func TestFieldReaderCStringRoundTrip(t *testing.T) {
	r := newFieldReader([]byte("hello\x00world"))
	s, err := r.cstring(UTF8)
	if err != nil {
		t.Fatalf("cstring: %v", err)
	}
	if s != "hello" {
		t.Fatalf("cstring = %q, want %q", s, "hello")
	}
	if string(r.remaining()) != "world" {
		t.Fatalf("remaining = %q, want %q", r.remaining(), "world")
	}
}
