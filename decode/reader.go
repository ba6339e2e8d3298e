package decode

import (
	"io"

	"github.com/wirepg/pgproto"
)

// Reader adapts a Decoder to a blocking pull API for callers that already
// hold a real io.Reader (a net.Conn, a bufio.Reader over one, a captured
// file) instead of driving Feed/Next themselves. The underlying Decoder
// still never blocks; Reader just does the Read-then-Feed-then-Next loop
// on the caller's behalf.
type Reader struct {
	src   io.Reader
	dec   *Decoder
	chunk []byte
}

// NewReader wraps src. chunkSize controls how much is read per underlying
// Read call; 0 selects a reasonable default.
func NewReader(src io.Reader, opts Options, chunkSize int) *Reader {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	return &Reader{src: src, dec: New(opts), chunk: make([]byte, chunkSize)}
}

// Next blocks until a complete BackendMessage is available, src reaches
// EOF, or decoding fails. Messages decoded ahead of a failing frame are
// returned first; once Next returns a decoding error, every subsequent call
// returns the same error: the sequence is non-restartable, per spec.md §9.
// A read error from src, io.EOF included, is returned as is and is not
// kept: a later call reads from src again.
func (r *Reader) Next() (pgproto.BackendMessage, error) {
	if msg, ok := r.dec.Next(); ok {
		return msg, nil
	}
	if err := r.dec.Err(); err != nil {
		return nil, err
	}
	for {
		n, err := r.src.Read(r.chunk)
		if n > 0 {
			ferr := r.dec.Feed(r.chunk[:n])
			if msg, ok := r.dec.Next(); ok {
				return msg, nil
			}
			if ferr != nil {
				return nil, ferr
			}
		}
		if err != nil {
			r.dec.Finish()
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
	}
}
