package pgproto

import (
	"strings"
	"testing"
)

func TestClearTextEncode(t *testing.T) {
	got := ClearText("hunter2").encode()
	want := []byte("hunter2\x00")
	if string(got) != string(want) {
		t.Fatalf("ClearText.encode() = %q, want %q", got, want)
	}
}

func TestMD5Shape(t *testing.T) {
	p := MD5("alice", "hunter2", [4]byte{1, 2, 3, 4})
	encoded := p.encode()
	if !strings.HasPrefix(string(encoded), "md5") {
		t.Fatalf("MD5 password must start with \"md5\", got %q", encoded)
	}
	// "md5" + 32 hex digits + NUL terminator.
	if len(encoded) != 3+32+1 {
		t.Fatalf("len(encoded) = %d, want %d", len(encoded), 3+32+1)
	}
	if encoded[len(encoded)-1] != 0 {
		t.Fatalf("encode() must be NUL-terminated")
	}
}

func TestMD5Deterministic(t *testing.T) {
	a := MD5("alice", "hunter2", [4]byte{1, 2, 3, 4})
	b := MD5("alice", "hunter2", [4]byte{1, 2, 3, 4})
	if string(a.encode()) != string(b.encode()) {
		t.Fatalf("MD5 must be a pure function of (user, password, salt)")
	}
}

func TestMD5VariesWithSalt(t *testing.T) {
	a := MD5("alice", "hunter2", [4]byte{1, 2, 3, 4})
	b := MD5("alice", "hunter2", [4]byte{5, 6, 7, 8})
	if string(a.encode()) == string(b.encode()) {
		t.Fatalf("MD5 with different salts must not collide")
	}
}
