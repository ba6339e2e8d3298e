package pgproto

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Charset is the character encoding in effect for every string field of a
// connection. It is a value, not process-wide state: every encode/decode
// call in this package takes a Charset explicitly.
//
// The zero Charset is UTF8, PostgreSQL's default client_encoding.
type Charset struct {
	enc encoding.Encoding
}

// UTF8 is the default charset used by essentially every PostgreSQL
// deployment. It is also the zero value of Charset.
var UTF8 = Charset{enc: unicode.UTF8}

// NewCharset wraps an arbitrary golang.org/x/text encoding as a Charset,
// for servers configured with client_encoding values other than UTF8
// (e.g. LATIN1, WIN1252).
func NewCharset(enc encoding.Encoding) Charset {
	return Charset{enc: enc}
}

func (c Charset) encoding() encoding.Encoding {
	if c.enc == nil {
		return unicode.UTF8
	}
	return c.enc
}

// Encode converts s from UTF-8 (Go's native string form) to this charset's
// wire bytes.
func (c Charset) Encode(s string) ([]byte, error) {
	return c.encoding().NewEncoder().Bytes([]byte(s))
}

// Decode converts wire bytes in this charset to a UTF-8 Go string.
func (c Charset) Decode(b []byte) (string, error) {
	out, err := c.encoding().NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
