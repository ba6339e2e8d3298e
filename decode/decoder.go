// Package decode implements the Streaming Decoder of spec.md §4.3: an
// incremental, back-pressure-aware transformation from a byte stream into a
// lazy sequence of decoded backend messages, tolerant of arbitrary
// byte-chunk boundaries.
//
// Decoder itself never blocks a thread (spec.md §5): Feed does all the
// parsing work synchronously and returns; Next only pops already-decoded
// messages. Reader, built on top, is the convenience for callers that hold
// a real io.Reader and want a blocking pull API.
package decode

import (
	"fmt"

	"github.com/wirepg/pgproto"
)

// Options configures a Decoder. Both fields are required; there are no
// ambient defaults, matching spec.md §6's configuration surface.
type Options struct {
	Charset   pgproto.Charset
	MaxLength int

	// OnFrame, if set, is called once per successfully parsed frame
	// before it is queued, with the message's type byte and content
	// length. It exists purely for diagnostics (see package wirelog) and
	// must not be relied on for correctness.
	OnFrame func(code byte, contentLength int)
}

// Decoder holds the two pieces of state spec.md §4.3 names explicitly:
// remainder (bytes consumed from upstream but not yet a complete message)
// and decoded (messages already parsed and awaiting downstream demand).
//
// A Decoder is not safe for concurrent use: spec.md §5 requires its
// callbacks be invoked non-reentrantly for a given instance, exactly like a
// single-threaded cooperative stream stage.
type Decoder struct {
	opts      Options
	remainder []byte
	decoded   []pgproto.BackendMessage
	err       error
}

// New constructs a Decoder with empty buffers.
func New(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Err returns the error that terminated the stage, if any. Once non-nil it
// never changes, and Feed becomes a no-op returning the same error.
func (d *Decoder) Err() error { return d.err }

// Feed is on-upstream-push: it appends b to remainder and repeatedly
// attempts to parse one framed message from the front, per spec.md §4.3.
// A push never blocks; it returns as soon as no further complete message
// can be extracted from the buffered bytes.
func (d *Decoder) Feed(b []byte) error {
	if d.err != nil {
		return d.err
	}
	if len(b) > 0 {
		d.remainder = append(d.remainder, b...)
	}

	for {
		cur := pgproto.NewCursor(d.remainder)
		mark := cur.Mark()

		code, ok := cur.Byte()
		if !ok {
			cur.Reset(mark)
			break
		}
		length, ok := cur.Int32()
		if !ok {
			// Only a type byte (and maybe a partial length) has arrived
			// so far; retain remainder from the type byte and wait for
			// on-upstream-push to deliver the rest.
			cur.Reset(mark)
			break
		}

		contentLength := int(length) - 4
		if contentLength < 0 {
			d.err = fmt.Errorf("pgproto/decode: message %q declares length %d shorter than the length field itself", code, length)
			return d.err
		}
		if contentLength > d.opts.MaxLength {
			d.err = &pgproto.MessageTooLongError{Code: code, ContentLength: contentLength, MaxLength: d.opts.MaxLength}
			return d.err
		}
		if cur.Len() < contentLength {
			// Defensive check from spec.md §4.3: iter.len must cover
			// contentLength before slicing. Not enough bytes have
			// arrived yet; retry on the next push.
			cur.Reset(mark)
			break
		}

		content, _ := cur.Split(contentLength)
		// content aliases d.remainder's backing array, which is about to
		// be re-sliced (and later appended to); give the decoded message
		// its own backing array so it stays valid beyond this frame.
		owned := append([]byte(nil), content...)
		consumed := cur.Mark()

		msg, err := pgproto.DecodeBackendMessage(code, d.opts.Charset, owned)
		if err != nil {
			d.err = err
			return err
		}
		if d.opts.OnFrame != nil {
			d.opts.OnFrame(code, contentLength)
		}
		d.decoded = append(d.decoded, msg)
		d.remainder = d.remainder[consumed:]
	}

	return nil
}

// Next is on-downstream-pull: if decoded is non-empty, pop its head and
// emit; otherwise report that more upstream bytes are needed (ok=false).
func (d *Decoder) Next() (pgproto.BackendMessage, bool) {
	if len(d.decoded) == 0 {
		return nil, false
	}
	msg := d.decoded[0]
	d.decoded[0] = nil
	d.decoded = d.decoded[1:]
	return msg, true
}

// Finish implements on-upstream-finish / on-downstream-finish: any pending
// remainder is discarded without requesting additional bytes.
func (d *Decoder) Finish() {
	d.remainder = nil
}
