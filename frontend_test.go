package pgproto

import (
	"bytes"
	"testing"
)

func TestTerminateEncode(t *testing.T) {
	got, err := Terminate{}.Encode(UTF8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{'X', 0, 0, 0, 4}
	if !bytes.Equal(got, want) {
		t.Fatalf("Terminate.Encode() = %v, want %v", got, want)
	}
}

func TestSyncAndFlushAreEmptyFrames(t *testing.T) {
	sync, _ := Sync{}.Encode(UTF8)
	if !bytes.Equal(sync, []byte{'S', 0, 0, 0, 4}) {
		t.Fatalf("Sync.Encode() = %v", sync)
	}
	flush, _ := Flush{}.Encode(UTF8)
	if !bytes.Equal(flush, []byte{'H', 0, 0, 0, 4}) {
		t.Fatalf("Flush.Encode() = %v", flush)
	}
}

func TestStartupMessageEncode(t *testing.T) {
	m := StartupMessage{
		User: "alice",
		Extra: []StartupParam{
			{Key: "database", Value: "app"},
			{Key: "user", Value: "ignored-duplicate"},
		},
	}
	got, err := m.Encode(UTF8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := append([]byte{}, byteseq(196608)...)
	want = append(want, "user\x00alice\x00database\x00app\x00\x00"...)
	want = lengthPrefix(want)

	if !bytes.Equal(got, want) {
		t.Fatalf("StartupMessage.Encode() =\n  %v\nwant\n  %v", got, want)
	}
}

func TestSSLRequestAndCancelRequestEncode(t *testing.T) {
	ssl, err := SSLRequest{}.Encode(UTF8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := lengthPrefix(byteseq(80877103))
	if !bytes.Equal(ssl, want) {
		t.Fatalf("SSLRequest.Encode() = %v, want %v", ssl, want)
	}

	cancel, err := CancelRequest{ProcessID: 42, SecretKey: 99}.Encode(UTF8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	wantCancel := lengthPrefix(append(append(byteseq(80877102), byteseq(42)...), byteseq(99)...))
	if !bytes.Equal(cancel, wantCancel) {
		t.Fatalf("CancelRequest.Encode() = %v, want %v", cancel, wantCancel)
	}
}

func TestQueryEncode(t *testing.T) {
	got, err := Query{SQL: "select 1"}.Encode(UTF8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := frameMessage('Q', []byte("select 1\x00"))
	if !bytes.Equal(got, want) {
		t.Fatalf("Query.Encode() = %v, want %v", got, want)
	}
}

func TestPasswordMessageEncode(t *testing.T) {
	got, err := PasswordMessage{Password: ClearText("s3cret")}.Encode(UTF8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := frameMessage('p', []byte("s3cret\x00"))
	if !bytes.Equal(got, want) {
		t.Fatalf("PasswordMessage.Encode() = %v, want %v", got, want)
	}
}

// byteseq renders v as its big-endian 4-byte form, matching writer.int32.
func byteseq(v int32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
