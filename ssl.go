package pgproto

// SSLReply is the single-byte reply a server sends immediately after an
// SSLRequest, before any framed message begins.
type SSLReply byte

const (
	SSLAccepted SSLReply = 'S'
	SSLRejected SSLReply = 'N'
)

// DecodeSSLReply interprets the byte following SSLRequest. Any value other
// than 'S'/'N' is a protocol violation the caller cannot recover from by
// itself.
//
// TLS negotiation and the resulting net.Conn upgrade are transport
// concerns outside the CORE (spec.md §1); this only classifies the byte.
func DecodeSSLReply(b byte) (SSLReply, error) {
	switch SSLReply(b) {
	case SSLAccepted, SSLRejected:
		return SSLReply(b), nil
	default:
		return 0, &UnsupportedSSLReplyError{Byte: b}
	}
}
