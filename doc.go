/*
Package pgproto implements the codec core of the PostgreSQL version-3
frontend/backend wire protocol: byte-level primitives, the closed
FrontendMessage/BackendMessage message sets, and the supporting types
(Charset, Format, Password, ResponseFields) those messages are built from.

This package only encodes and decodes bytes; it never opens a net.Conn, runs
a query, or manages a connection pool. See the decode package for turning a
byte stream into a sequence of BackendMessage values, and the rollover
package for fanning that sequence out across protocol phases (SSL
negotiation, authentication, the steady-state query cycle).

# Encoding a request

Every FrontendMessage knows how to render itself:

	msg := pgproto.StartupMessage{User: "app"}
	wire, err := msg.Encode(pgproto.UTF8)

# Decoding a response

DecodeBackendMessage takes an already-framed message (its type byte plus
exactly its declared content length of payload bytes) and returns the
matching BackendMessage:

	msg, err := pgproto.DecodeBackendMessage('Z', pgproto.UTF8, payload)

Framing a byte stream into those (code, payload) pairs is decode.Decoder's
job, not this package's.

# Character encoding

Every string field is charset-aware: callers pass a Charset, built from
golang.org/x/text/encoding, to every Encode/Decode call. UTF8 is the zero
value and PostgreSQL's near-universal default.

# Errors

Decode failures are typed (*DecodeError, *MessageTooLongError,
*UnsupportedMessageTypeError, and friends) rather than returned as opaque
fmt.Errorf strings, so a caller can distinguish a malformed frame from a
frame that is merely unsupported.
*/
package pgproto
