package pgproto

import "fmt"

// errShortMessage is returned internally by the field reader whenever a
// message payload runs out of bytes before a fixed-width field or a
// requested byte run has been fully read. It is wrapped into a
// *DecodeError by the caller that knows which message and type byte were
// being decoded.
var errShortMessage = fmt.Errorf("pgproto: message payload truncated")

// errUnterminatedString resolves spec.md's open question about getCString:
// a NUL-terminated string field with no terminator is a framing error, not
// a silent pass-through of the remaining bytes.
var errUnterminatedString = fmt.Errorf("pgproto: string field missing NUL terminator")

// DecodeError wraps any failure that occurs while decoding the payload of a
// backend message whose type byte and length were already framed
// successfully. It is always fatal to the Streaming Decoder stage that
// produced it (spec.md §7): the byte position after a bad frame is
// ambiguous, so there is no safe way to resynchronize and keep decoding.
type DecodeError struct {
	Code byte // the backend message type byte being decoded
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pgproto: decode %q: %v", e.Code, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MessageTooLongError is raised by the Streaming Decoder when a frame's
// declared content length exceeds the configured MaxLength.
type MessageTooLongError struct {
	Code          byte
	ContentLength int
	MaxLength     int
}

func (e *MessageTooLongError) Error() string {
	return fmt.Sprintf("pgproto: message %q content length %d exceeds max %d", e.Code, e.ContentLength, e.MaxLength)
}

// UnsupportedMessageTypeError is raised when a fully-framed message carries
// a backend type byte outside the closed dispatch table.
type UnsupportedMessageTypeError struct {
	Code byte
}

func (e *UnsupportedMessageTypeError) Error() string {
	return fmt.Sprintf("pgproto: unsupported backend message type %q", e.Code)
}

// UnsupportedAuthenticationMethodError is raised decoding an
// AuthenticationRequest whose sub-kind is outside {0,2,3,5,6,7,8,9}.
type UnsupportedAuthenticationMethodError struct {
	SubKind int32
}

func (e *UnsupportedAuthenticationMethodError) Error() string {
	return fmt.Sprintf("pgproto: unsupported authentication method %d", e.SubKind)
}

// UnsupportedSSLReplyError is raised when the single byte following an
// SSLRequest is neither 'S' nor 'N'.
type UnsupportedSSLReplyError struct {
	Byte byte
}

func (e *UnsupportedSSLReplyError) Error() string {
	return fmt.Sprintf("pgproto: unsupported SSL negotiation reply %q", e.Byte)
}

// UnsupportedFormatTypeError is raised for a Format tag other than 0 or 1.
type UnsupportedFormatTypeError struct {
	Tag int16
}

func (e *UnsupportedFormatTypeError) Error() string {
	return fmt.Sprintf("pgproto: unsupported format type %d", e.Tag)
}

// UnsupportedTransactionStatusError is raised for a ReadyForQuery status
// byte other than 'I', 'T', or 'E'.
type UnsupportedTransactionStatusError struct {
	Byte byte
}

func (e *UnsupportedTransactionStatusError) Error() string {
	return fmt.Sprintf("pgproto: unsupported transaction status %q", e.Byte)
}

// UnexpectedBinaryColumnFormatError is raised when a CopyIn/Out/BothResponse
// declares an overall Text format but one or more per-column formats are
// Binary.
type UnexpectedBinaryColumnFormatError struct {
	Columns []int
}

func (e *UnexpectedBinaryColumnFormatError) Error() string {
	return fmt.Sprintf("pgproto: copy response declares text format but columns %v are binary", e.Columns)
}
