package pgproto

import (
	"reflect"
	"testing"
)

func TestDecodeReadyForQuery(t *testing.T) {
	msg, err := DecodeBackendMessage('Z', UTF8, []byte{'I'})
	if err != nil {
		t.Fatalf("DecodeBackendMessage: %v", err)
	}
	rfq, ok := msg.(ReadyForQuery)
	if !ok || rfq.Status != Idle {
		t.Fatalf("got %#v, want ReadyForQuery{Idle}", msg)
	}
}

func TestDecodeReadyForQueryRejectsUnknownStatus(t *testing.T) {
	if _, err := DecodeBackendMessage('Z', UTF8, []byte{'?'}); err == nil {
		t.Fatalf("expected an error for an unrecognized transaction status byte")
	}
}

func TestDecodeCommandCompleteVariants(t *testing.T) {
	cases := []struct {
		tag  string
		want CommandComplete
	}{
		{"CREATE TABLE", CommandComplete{Kind: CommandTagNameOnly, Name: "CREATE TABLE"}},
		{"SELECT 5", CommandComplete{Kind: CommandTagRowsAffected, Name: "SELECT", Rows: 5}},
		{"INSERT 0 1", CommandComplete{Kind: CommandTagOIDWithRows, Name: "INSERT", OID: 0, Rows: 1}},
	}
	for _, tc := range cases {
		payload := append([]byte(tc.tag), 0)
		msg, err := DecodeBackendMessage('C', UTF8, payload)
		if err != nil {
			t.Fatalf("tag %q: DecodeBackendMessage: %v", tc.tag, err)
		}
		got, ok := msg.(CommandComplete)
		if !ok || !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("tag %q: got %#v, want %#v", tc.tag, msg, tc.want)
		}
	}
}

func TestDecodeDataRowNullColumn(t *testing.T) {
	payload := []byte{0, 2} // 2 columns
	payload = append(payload, 0xff, 0xff, 0xff, 0xff)  // length -1: NULL
	payload = append(payload, 0, 0, 0, 3)              // length 3
	payload = append(payload, 'f', 'o', 'o')

	msg, err := DecodeBackendMessage('D', UTF8, payload)
	if err != nil {
		t.Fatalf("DecodeBackendMessage: %v", err)
	}
	row, ok := msg.(DataRow)
	if !ok {
		t.Fatalf("got %#v, want DataRow", msg)
	}
	if row.Columns[0] != nil {
		t.Fatalf("column 0 = %v, want nil (NULL)", row.Columns[0])
	}
	if string(row.Columns[1]) != "foo" {
		t.Fatalf("column 1 = %q, want %q", row.Columns[1], "foo")
	}
}

func TestDecodeDataRowRejectsInvalidNegativeLength(t *testing.T) {
	payload := []byte{0, 1, 0xff, 0xff, 0xff, 0xfe} // length -2: ill-formed
	if _, err := DecodeBackendMessage('D', UTF8, payload); err == nil {
		t.Fatalf("expected an error for column length -2")
	}
}

func TestDecodeErrorResponse(t *testing.T) {
	var payload []byte
	payload = append(payload, 'S')
	payload = append(payload, "ERROR\x00"...)
	payload = append(payload, 'C')
	payload = append(payload, "42601\x00"...)
	payload = append(payload, 'M')
	payload = append(payload, "syntax error\x00"...)
	payload = append(payload, 0)

	msg, err := DecodeBackendMessage('E', UTF8, payload)
	if err != nil {
		t.Fatalf("DecodeBackendMessage: %v", err)
	}
	er, ok := msg.(ErrorResponse)
	if !ok {
		t.Fatalf("got %#v, want ErrorResponse", msg)
	}
	if er.Fields.Severity() != "ERROR" || er.Fields.SQLState() != "42601" || er.Fields.Message() != "syntax error" {
		t.Fatalf("got %+v", er.Fields)
	}
	if er.Error() == "" {
		t.Fatalf("Error() should not be empty")
	}
}

func TestDecodeAuthenticationRequestMD5(t *testing.T) {
	payload := append(byteseq(5), 'a', 'b', 'c', 'd')
	msg, err := DecodeBackendMessage('R', UTF8, payload)
	if err != nil {
		t.Fatalf("DecodeBackendMessage: %v", err)
	}
	auth, ok := msg.(AuthenticationRequest)
	if !ok || auth.SubKind != AuthMD5Password {
		t.Fatalf("got %#v, want AuthMD5Password", msg)
	}
	if string(auth.Salt[:]) != "abcd" {
		t.Fatalf("salt = %q, want %q", auth.Salt[:], "abcd")
	}
}

func TestDecodeUnsupportedMessageType(t *testing.T) {
	_, err := DecodeBackendMessage('?', UTF8, nil)
	if _, ok := err.(*UnsupportedMessageTypeError); !ok {
		t.Fatalf("err = %v (%T), want *UnsupportedMessageTypeError", err, err)
	}
}
