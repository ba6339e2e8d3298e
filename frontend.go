package pgproto

import (
	"github.com/wirepg/pgproto/internal/oid"
	"github.com/wirepg/pgproto/internal/proto"
)

// startupProtocolVersion is the version-3.0 header PostgreSQL still uses:
// (3 << 16) | 0.
const startupProtocolVersion = 196608

// FrontendMessage is the closed sum of every message a client may send.
// Implementations live only in this package; sealed() exists to keep the
// set closed the way spec.md §3 describes it.
type FrontendMessage interface {
	// Encode renders the message to its exact wire bytes, using cs for
	// every string field.
	Encode(cs Charset) ([]byte, error)
	sealed()
}

// DescriptorKind selects whether a Close/Describe target names a portal or
// a prepared statement.
type DescriptorKind byte

const (
	PortalDescriptor    DescriptorKind = 'P'
	StatementDescriptor DescriptorKind = 'S'
)

// Descriptor names a portal or prepared statement. An empty Name is the
// canonical "unnamed" destination.
type Descriptor struct {
	Kind DescriptorKind
	Name string
}

func (d Descriptor) encode(w *writer, cs Charset) error {
	w.byte(byte(d.Kind))
	return w.cstring(cs, d.Name)
}

// Parameter is one bound value of a Bind or FunctionCall message. A nil
// Value encodes as SQL NULL (length -1).
type Parameter struct {
	Format Format
	Value  []byte
}

func encodeParameters(w *writer, params []Parameter) {
	w.int16(int16(len(params)))
	for _, p := range params {
		w.int16(int16(p.Format))
	}
	w.int16(int16(len(params)))
	for _, p := range params {
		if p.Value == nil {
			w.int32(-1)
			continue
		}
		w.int32(int32(len(p.Value)))
		w.bytes(p.Value)
	}
}

// StartupMessage is the very first message sent on a new connection. It
// carries no type byte. The User field always wins over any "user" entry
// in Extra, per spec.md §3.
type StartupMessage struct {
	User  string
	Extra []StartupParam
}

// StartupParam is one additional key/value pair of a StartupMessage, e.g.
// database, application_name, client_encoding.
type StartupParam struct {
	Key   string
	Value string
}

func (StartupMessage) sealed() {}

func (m StartupMessage) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	w.int32(startupProtocolVersion)
	if err := w.cstring(cs, "user"); err != nil {
		return nil, err
	}
	if err := w.cstring(cs, m.User); err != nil {
		return nil, err
	}
	for _, kv := range m.Extra {
		if kv.Key == "user" {
			continue
		}
		if err := w.cstring(cs, kv.Key); err != nil {
			return nil, err
		}
		if err := w.cstring(cs, kv.Value); err != nil {
			return nil, err
		}
	}
	w.byte(0)
	return lengthPrefix(w.bytesValue()), nil
}

// SSLRequest asks the server whether it will negotiate TLS before the
// startup handshake proper begins.
type SSLRequest struct{}

func (SSLRequest) sealed() {}

func (SSLRequest) Encode(Charset) ([]byte, error) {
	w := newWriter()
	w.int32(80877103)
	return lengthPrefix(w.bytesValue()), nil
}

// CancelRequest asks the server to cancel the query running on a different
// connection identified by ProcessID/SecretKey, both taken from that
// connection's BackendKeyData.
type CancelRequest struct {
	ProcessID int32
	SecretKey int32
}

func (CancelRequest) sealed() {}

func (m CancelRequest) Encode(Charset) ([]byte, error) {
	w := newWriter()
	w.int32(80877102)
	w.int32(m.ProcessID)
	w.int32(m.SecretKey)
	return lengthPrefix(w.bytesValue()), nil
}

// Bind binds parameter values to a prepared statement, creating a portal.
type Bind struct {
	DestinationPortal string
	SourceStatement   string
	Parameters        []Parameter
	ResultFormats     FieldFormats
}

func (Bind) sealed() {}

func (m Bind) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	if err := w.cstring(cs, m.DestinationPortal); err != nil {
		return nil, err
	}
	if err := w.cstring(cs, m.SourceStatement); err != nil {
		return nil, err
	}
	encodeParameters(w, m.Parameters)
	m.ResultFormats.encode(w)
	return frameMessage(byte(proto.Bind), w.bytesValue()), nil
}

// Close discloses a portal or prepared statement for the backend to
// release.
type Close struct {
	Target Descriptor
}

func (Close) sealed() {}

func (m Close) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	if err := m.Target.encode(w, cs); err != nil {
		return nil, err
	}
	return frameMessage(byte(proto.Close), w.bytesValue()), nil
}

// CopyData carries one chunk of COPY subprotocol data, in either direction.
type CopyData struct {
	Data []byte
}

func (CopyData) sealed() {}

func (m CopyData) Encode(Charset) ([]byte, error) {
	return frameMessage(byte(proto.CopyDataRequest), m.Data), nil
}

// CopyDone signals successful completion of a COPY ... FROM STDIN.
type CopyDone struct{}

func (CopyDone) sealed() {}

func (CopyDone) Encode(Charset) ([]byte, error) { return emptyFrame(byte(proto.CopyDoneRequest)), nil }

// CopyFail aborts a COPY ... FROM STDIN with an explanatory message.
type CopyFail struct {
	Message string
}

func (CopyFail) sealed() {}

func (m CopyFail) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	if err := w.cstring(cs, m.Message); err != nil {
		return nil, err
	}
	return frameMessage(byte(proto.CopyFail), w.bytesValue()), nil
}

// Describe requests a ParameterDescription/RowDescription for a portal or
// prepared statement.
type Describe struct {
	Target Descriptor
}

func (Describe) sealed() {}

func (m Describe) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	if err := m.Target.encode(w, cs); err != nil {
		return nil, err
	}
	return frameMessage(byte(proto.Describe), w.bytesValue()), nil
}

// Execute runs a portal, returning at most MaxRows rows (0 means
// unlimited).
type Execute struct {
	Portal  string
	MaxRows int32
}

func (Execute) sealed() {}

func (m Execute) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	if err := w.cstring(cs, m.Portal); err != nil {
		return nil, err
	}
	w.int32(m.MaxRows)
	return frameMessage(byte(proto.Execute), w.bytesValue()), nil
}

// Flush asks the backend to deliver any pending output without an implicit
// Sync.
type Flush struct{}

func (Flush) sealed() {}

func (Flush) Encode(Charset) ([]byte, error) { return emptyFrame(byte(proto.Flush)), nil }

// FunctionCall invokes a server-side function by OID (the legacy
// fastpath interface).
type FunctionCall struct {
	Target       oid.Oid
	Parameters   []Parameter
	ResultFormat Format
}

func (FunctionCall) sealed() {}

func (m FunctionCall) Encode(Charset) ([]byte, error) {
	w := newWriter()
	w.int32(int32(m.Target))
	encodeParameters(w, m.Parameters)
	w.int16(int16(m.ResultFormat))
	return frameMessage(byte(proto.FunctionCall), w.bytesValue()), nil
}

// Parse compiles Query into a prepared statement named Destination, with
// explicit parameter type OIDs (Unknown/0 lets the backend infer a type).
type Parse struct {
	Destination string
	Query       string
	ParamTypes  []oid.Oid
}

func (Parse) sealed() {}

func (m Parse) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	if err := w.cstring(cs, m.Destination); err != nil {
		return nil, err
	}
	if err := w.cstring(cs, m.Query); err != nil {
		return nil, err
	}
	w.int16(int16(len(m.ParamTypes)))
	for _, t := range m.ParamTypes {
		w.int32(int32(t))
	}
	return frameMessage(byte(proto.Parse), w.bytesValue()), nil
}

// PasswordMessage answers an AuthenticationRequest challenge.
type PasswordMessage struct {
	Password Password
}

func (PasswordMessage) sealed() {}

func (m PasswordMessage) Encode(Charset) ([]byte, error) {
	return frameMessage(byte(proto.PasswordMessage), m.Password.encode()), nil
}

// Query issues a simple-query-protocol statement, possibly containing
// multiple ;-separated statements.
type Query struct {
	SQL string
}

func (Query) sealed() {}

func (m Query) Encode(cs Charset) ([]byte, error) {
	w := newWriter()
	if err := w.cstring(cs, m.SQL); err != nil {
		return nil, err
	}
	return frameMessage(byte(proto.Query), w.bytesValue()), nil
}

// Sync marks the end of an extended-query pipeline, requesting a
// ReadyForQuery reply.
type Sync struct{}

func (Sync) sealed() {}

func (Sync) Encode(Charset) ([]byte, error) { return emptyFrame(byte(proto.Sync)), nil }

// Terminate cleanly closes the connection.
type Terminate struct{}

func (Terminate) sealed() {}

func (Terminate) Encode(Charset) ([]byte, error) { return emptyFrame(byte(proto.Terminate)), nil }
