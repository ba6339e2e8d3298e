// Package scan implements the Pluggable Column Decoders of spec.md §4.5: a
// generic contract for turning one DataRow column's raw wire bytes into a
// Go value, plus the built-in decoder set spec.md names.
//
// A Decoder never sees a whole DataRow; it is handed exactly one column's
// raw value (nil for SQL NULL) and the Charset the connection negotiated,
// mirroring how pgproto.decodeResponseFields hands a reader down to one
// field at a time rather than owning the whole message.
package scan

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/wirepg/pgproto"
)

// ErrNull is returned by a Decoder when asked to decode a NULL column
// (raw == nil) into a type with no representation for "absent". Decoders for
// pointer or nullable-wrapper types should handle nil themselves instead of
// returning ErrNull.
var ErrNull = fmt.Errorf("scan: column value is NULL")

// Decoder turns one column's raw text-format wire value into a T. The built-
// in decoders in this package all assume text format (pgproto.Text); a
// binary-format column must be handled by a caller-supplied Decoder.
type Decoder[T any] interface {
	Decode(raw []byte, cs pgproto.Charset) (T, error)
}

// DecoderFunc adapts a plain function to a Decoder.
type DecoderFunc[T any] func([]byte, pgproto.Charset) (T, error)

func (f DecoderFunc[T]) Decode(raw []byte, cs pgproto.Charset) (T, error) { return f(raw, cs) }

func decodeText(raw []byte, cs pgproto.Charset) (string, error) {
	if raw == nil {
		return "", ErrNull
	}
	return cs.Decode(raw)
}

// String decodes a column as charset-decoded text, verbatim.
var String Decoder[string] = DecoderFunc[string](decodeText)

// Bool decodes PostgreSQL's single-byte boolean text representation: "t" or
// "f".
var Bool Decoder[bool] = DecoderFunc[bool](func(raw []byte, cs pgproto.Charset) (bool, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return false, err
	}
	switch s {
	case "t":
		return true, nil
	case "f":
		return false, nil
	default:
		return false, fmt.Errorf("scan: invalid bool literal %q", s)
	}
})

// Byte decodes a single-character column into its raw byte value, rejecting
// any column whose decoded text is not exactly one byte long.
var Byte Decoder[byte] = DecoderFunc[byte](func(raw []byte, cs pgproto.Charset) (byte, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return 0, err
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("scan: byte column has length %d, want 1", len(s))
	}
	return s[0], nil
})

// Char decodes a single-character column into the first (and only) rune of
// its decoded text, rejecting any column that isn't exactly one rune.
var Char Decoder[rune] = DecoderFunc[rune](func(raw []byte, cs pgproto.Charset) (rune, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return 0, err
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("scan: char column has length %d runes, want 1", len(runes))
	}
	return runes[0], nil
})

func parseInt(raw []byte, cs pgproto.Charset, bitSize int) (int64, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, bitSize)
}

// Int16, Int32, and Int64 decode PostgreSQL's smallint/integer/bigint text
// representations.
var (
	Int16 Decoder[int16] = DecoderFunc[int16](func(raw []byte, cs pgproto.Charset) (int16, error) {
		v, err := parseInt(raw, cs, 16)
		return int16(v), err
	})
	Int32 Decoder[int32] = DecoderFunc[int32](func(raw []byte, cs pgproto.Charset) (int32, error) {
		v, err := parseInt(raw, cs, 32)
		return int32(v), err
	})
	Int64 Decoder[int64] = DecoderFunc[int64](func(raw []byte, cs pgproto.Charset) (int64, error) {
		return parseInt(raw, cs, 64)
	})
)

func parseFloat(raw []byte, cs pgproto.Charset, bitSize int) (float64, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), bitSize)
}

// Float and Double decode PostgreSQL's real/double precision text
// representations, including the special "NaN", "Infinity", and
// "-Infinity" literals strconv.ParseFloat already understands.
var (
	Float  Decoder[float32] = DecoderFunc[float32](func(raw []byte, cs pgproto.Charset) (float32, error) {
		v, err := parseFloat(raw, cs, 32)
		return float32(v), err
	})
	Double Decoder[float64] = DecoderFunc[float64](func(raw []byte, cs pgproto.Charset) (float64, error) {
		return parseFloat(raw, cs, 64)
	})
)

// BigInteger decodes PostgreSQL's numeric/bigint text into an arbitrary-
// precision integer. No ecosystem big-integer type appears anywhere in the
// example corpus, so this is grounded on the standard library's math/big.
var BigInteger Decoder[*big.Int] = DecoderFunc[*big.Int](func(raw []byte, cs pgproto.Charset) (*big.Int, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("scan: invalid big integer literal %q", s)
	}
	return v, nil
})

// BigDecimal decodes PostgreSQL's numeric text into an exact rational, the
// closest standard-library type to an arbitrary-precision decimal: math/big
// has no dedicated decimal type, and none of the example repos import a
// third-party one, so big.Rat (which SetString parses directly from decimal
// notation, no fraction required) is the grounded choice.
var BigDecimal Decoder[*big.Rat] = DecoderFunc[*big.Rat](func(raw []byte, cs pgproto.Charset) (*big.Rat, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("scan: invalid big decimal literal %q", s)
	}
	return v, nil
})

// dateLayout is PostgreSQL's default DateStyle output for the date type.
const dateLayout = "2006-01-02"

// Date decodes a date column in PostgreSQL's default ISO DateStyle.
var Date Decoder[time.Time] = DecoderFunc[time.Time](func(raw []byte, cs pgproto.Charset) (time.Time, error) {
	s, err := decodeText(raw, cs)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(dateLayout, s)
})

// ByteArray decodes bytea's hex output format, "\x" followed by pairs of hex
// digits, the format every PostgreSQL version since 9.0 emits by default.
var ByteArray Decoder[[]byte] = DecoderFunc[[]byte](func(raw []byte, cs pgproto.Charset) ([]byte, error) {
	if raw == nil {
		return nil, ErrNull
	}
	s, err := cs.Decode(raw)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(s, `\x`) {
		return nil, fmt.Errorf("scan: bytea value %q missing \\x hex prefix", s)
	}
	out, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("scan: bytea value has invalid hex digits: %w", err)
	}
	return out, nil
})
