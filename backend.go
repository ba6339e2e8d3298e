package pgproto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wirepg/pgproto/internal/oid"
	"github.com/wirepg/pgproto/internal/proto"
)

// BackendMessage is the closed sum of every message a server may send.
type BackendMessage interface {
	sealed()
}

// AuthSubKind is the sub-kind carried by every AuthenticationRequest.
type AuthSubKind int32

const (
	AuthOK                AuthSubKind = AuthSubKind(proto.AuthReqOk)
	AuthKerberosV5        AuthSubKind = AuthSubKind(proto.AuthReqKrb5)
	AuthCleartextPassword AuthSubKind = AuthSubKind(proto.AuthReqPassword)
	AuthMD5Password       AuthSubKind = AuthSubKind(proto.AuthReqMD5)
	AuthSCMCredential     AuthSubKind = 6 // retired; proto.AuthCode leaves it unnamed
	AuthGSS               AuthSubKind = AuthSubKind(proto.AuthReqGSS)
	AuthGSSContinue       AuthSubKind = AuthSubKind(proto.AuthReqGSSCont)
	AuthSSPI              AuthSubKind = AuthSubKind(proto.AuthReqSSPI)
)

// AuthenticationRequest is the 'R' backend message. Salt is populated only
// for AuthMD5Password; GSSData only for AuthGSSContinue.
type AuthenticationRequest struct {
	SubKind AuthSubKind
	Salt    [4]byte
	GSSData []byte
}

func (AuthenticationRequest) sealed() {}

func decodeAuthenticationRequest(r *reader) (AuthenticationRequest, error) {
	kind, err := r.int32()
	if err != nil {
		return AuthenticationRequest{}, err
	}
	switch AuthSubKind(kind) {
	case AuthOK, AuthKerberosV5, AuthCleartextPassword, AuthSCMCredential, AuthGSS, AuthSSPI:
		return AuthenticationRequest{SubKind: AuthSubKind(kind)}, nil
	case AuthMD5Password:
		salt, err := r.bytes(4)
		if err != nil {
			return AuthenticationRequest{}, err
		}
		var s [4]byte
		copy(s[:], salt)
		return AuthenticationRequest{SubKind: AuthMD5Password, Salt: s}, nil
	case AuthGSSContinue:
		return AuthenticationRequest{SubKind: AuthGSSContinue, GSSData: append([]byte(nil), r.remaining()...)}, nil
	default:
		return AuthenticationRequest{}, &UnsupportedAuthenticationMethodError{SubKind: kind}
	}
}

// BackendKeyData carries the identifiers a client needs to issue a later
// CancelRequest against this connection.
type BackendKeyData struct {
	ProcessID int32
	SecretKey int32
}

func (BackendKeyData) sealed() {}

func decodeBackendKeyData(r *reader) (BackendKeyData, error) {
	pid, err := r.int32()
	if err != nil {
		return BackendKeyData{}, err
	}
	secret, err := r.int32()
	if err != nil {
		return BackendKeyData{}, err
	}
	return BackendKeyData{ProcessID: pid, SecretKey: secret}, nil
}

type BindComplete struct{}

func (BindComplete) sealed() {}

type CloseComplete struct{}

func (CloseComplete) sealed() {}

// CommandCompleteKind distinguishes the three shapes a CommandComplete tag
// can take, per spec.md's Scenario H.
type CommandCompleteKind int

const (
	CommandTagNameOnly CommandCompleteKind = iota
	CommandTagRowsAffected
	CommandTagOIDWithRows
)

// CommandComplete reports the outcome of a completed command, decoded from
// a space-split tag string: "name oid rows", "name rows", or just "name".
// Up to two trailing numeric fields are the counts; everything before them
// is the name, which may itself contain spaces ("CREATE TABLE").
type CommandComplete struct {
	Kind CommandCompleteKind
	Name string
	OID  int64
	Rows int64
}

func (CommandComplete) sealed() {}

func decodeCommandComplete(r *reader, cs Charset) (CommandComplete, error) {
	tag, err := r.cstring(cs)
	if err != nil {
		return CommandComplete{}, err
	}
	fields := strings.Fields(tag)
	nums := 0
	for nums < 2 && nums < len(fields)-1 && strings.Trim(fields[len(fields)-1-nums], "0123456789") == "" {
		nums++
	}
	name := strings.Join(fields[:len(fields)-nums], " ")
	counts := fields[len(fields)-nums:]
	switch {
	case name == "":
		return CommandComplete{}, fmt.Errorf("pgproto: malformed CommandComplete tag %q", tag)
	case len(counts) == 0:
		return CommandComplete{Kind: CommandTagNameOnly, Name: name}, nil
	case len(counts) == 1:
		rows, err := strconv.ParseInt(counts[0], 10, 64)
		if err != nil {
			return CommandComplete{}, fmt.Errorf("pgproto: CommandComplete rows: %w", err)
		}
		return CommandComplete{Kind: CommandTagRowsAffected, Name: name, Rows: rows}, nil
	default:
		commandOID, err := strconv.ParseInt(counts[0], 10, 64)
		if err != nil {
			return CommandComplete{}, fmt.Errorf("pgproto: CommandComplete oid: %w", err)
		}
		rows, err := strconv.ParseInt(counts[1], 10, 64)
		if err != nil {
			return CommandComplete{}, fmt.Errorf("pgproto: CommandComplete rows: %w", err)
		}
		return CommandComplete{Kind: CommandTagOIDWithRows, Name: name, OID: commandOID, Rows: rows}, nil
	}
}

// CopyDataBackend carries one chunk of COPY subprotocol data sent by the
// backend.
type CopyDataBackend struct {
	Data []byte
}

func (CopyDataBackend) sealed() {}

type CopyDoneBackend struct{}

func (CopyDoneBackend) sealed() {}

func decodeCopyFormats(r *reader) (overall Format, columns []Format, err error) {
	b, err := r.byte()
	if err != nil {
		return 0, nil, err
	}
	overall, err = decodeFormat(int16(b))
	if err != nil {
		return 0, nil, err
	}
	n, err := r.int16()
	if err != nil {
		return 0, nil, err
	}
	columns = make([]Format, n)
	for i := range columns {
		tag, err := r.int16()
		if err != nil {
			return 0, nil, err
		}
		f, err := decodeFormat(tag)
		if err != nil {
			return 0, nil, err
		}
		columns[i] = f
	}
	if overall == Text {
		var bad []int
		for i, f := range columns {
			if f == Binary {
				bad = append(bad, i)
			}
		}
		if len(bad) > 0 {
			return overall, columns, &UnexpectedBinaryColumnFormatError{Columns: bad}
		}
	}
	return overall, columns, nil
}

// CopyInResponse, CopyOutResponse, and CopyBothResponse share the shape
// spec.md's §3 table gives all three: an overall Format followed by a
// per-column Format for every column, with the invariant that a Text
// overall format forbids any Binary column.
type CopyInResponse struct {
	OverallFormat Format
	ColumnFormats []Format
}

func (CopyInResponse) sealed() {}

type CopyOutResponse struct {
	OverallFormat Format
	ColumnFormats []Format
}

func (CopyOutResponse) sealed() {}

type CopyBothResponse struct {
	OverallFormat Format
	ColumnFormats []Format
}

func (CopyBothResponse) sealed() {}

// DataRow carries one row of query results. A nil element means SQL NULL
// (wire length -1); per spec.md's open question, any other negative length
// is ill-formed and rejected rather than silently treated as NULL.
type DataRow struct {
	Columns [][]byte
}

func (DataRow) sealed() {}

func decodeDataRow(r *reader) (DataRow, error) {
	n, err := r.int16()
	if err != nil {
		return DataRow{}, err
	}
	cols := make([][]byte, n)
	for i := range cols {
		length, err := r.int32()
		if err != nil {
			return DataRow{}, err
		}
		switch {
		case length == -1:
			cols[i] = nil
		case length < -1:
			return DataRow{}, fmt.Errorf("pgproto: DataRow column %d has invalid negative length %d", i, length)
		default:
			b, err := r.bytes(int(length))
			if err != nil {
				return DataRow{}, err
			}
			cols[i] = b
		}
	}
	return DataRow{Columns: cols}, nil
}

type EmptyQueryResponse struct{}

func (EmptyQueryResponse) sealed() {}

// ErrorResponse reports a query or connection failure.
type ErrorResponse struct {
	Fields ResponseFields
}

func (ErrorResponse) sealed() {}

// Error implements the error interface so callers can treat a decoded
// ErrorResponse as a Go error directly, mirroring lib-pq's pgError.Error.
func (e ErrorResponse) Error() string {
	return fmt.Sprintf("pgproto: %s: %s", e.Fields.Severity(), e.Fields.Message())
}

// FunctionCallResponse is the reply to a FunctionCall. A nil Value means
// SQL NULL.
type FunctionCallResponse struct {
	Value []byte
}

func (FunctionCallResponse) sealed() {}

func decodeFunctionCallResponse(r *reader) (FunctionCallResponse, error) {
	length, err := r.int32()
	if err != nil {
		return FunctionCallResponse{}, err
	}
	if length == -1 {
		return FunctionCallResponse{}, nil
	}
	if length < -1 {
		return FunctionCallResponse{}, fmt.Errorf("pgproto: FunctionCallResponse has invalid negative length %d", length)
	}
	v, err := r.bytes(int(length))
	if err != nil {
		return FunctionCallResponse{}, err
	}
	return FunctionCallResponse{Value: v}, nil
}

type NoData struct{}

func (NoData) sealed() {}

// NoticeResponse is a non-fatal advisory sent by the server, shaped exactly
// like ErrorResponse.
type NoticeResponse struct {
	Fields ResponseFields
}

func (NoticeResponse) sealed() {}

// NotificationResponse delivers an asynchronous LISTEN/NOTIFY payload.
type NotificationResponse struct {
	ProcessID int32
	Channel   string
	Payload   string
}

func (NotificationResponse) sealed() {}

func decodeNotificationResponse(r *reader, cs Charset) (NotificationResponse, error) {
	pid, err := r.int32()
	if err != nil {
		return NotificationResponse{}, err
	}
	channel, err := r.cstring(cs)
	if err != nil {
		return NotificationResponse{}, err
	}
	payload, err := r.cstring(cs)
	if err != nil {
		return NotificationResponse{}, err
	}
	return NotificationResponse{ProcessID: pid, Channel: channel, Payload: payload}, nil
}

// ParameterDescription lists the inferred types of a prepared statement's
// parameters.
type ParameterDescription struct {
	Types []oid.Oid
}

func (ParameterDescription) sealed() {}

func decodeParameterDescription(r *reader) (ParameterDescription, error) {
	n, err := r.int16()
	if err != nil {
		return ParameterDescription{}, err
	}
	types := make([]oid.Oid, n)
	for i := range types {
		v, err := r.oidVal()
		if err != nil {
			return ParameterDescription{}, err
		}
		types[i] = oid.Oid(v)
	}
	return ParameterDescription{Types: types}, nil
}

// ParameterStatus reports a GUC value change (server_version, TimeZone, ...).
type ParameterStatus struct {
	Key   string
	Value string
}

func (ParameterStatus) sealed() {}

func decodeParameterStatus(r *reader, cs Charset) (ParameterStatus, error) {
	key, err := r.cstring(cs)
	if err != nil {
		return ParameterStatus{}, err
	}
	value, err := r.cstring(cs)
	if err != nil {
		return ParameterStatus{}, err
	}
	return ParameterStatus{Key: key, Value: value}, nil
}

type ParseComplete struct{}

func (ParseComplete) sealed() {}

type PortalSuspended struct{}

func (PortalSuspended) sealed() {}

// TransactionStatus is the single status byte carried by ReadyForQuery.
type TransactionStatus byte

const (
	Idle            TransactionStatus = 'I'
	TransactionOpen TransactionStatus = 'T'
	Failed          TransactionStatus = 'E'
)

// ReadyForQuery signals the backend is ready for a new query cycle.
type ReadyForQuery struct {
	Status TransactionStatus
}

func (ReadyForQuery) sealed() {}

func decodeReadyForQuery(r *reader) (ReadyForQuery, error) {
	b, err := r.byte()
	if err != nil {
		return ReadyForQuery{}, err
	}
	switch TransactionStatus(b) {
	case Idle, TransactionOpen, Failed:
		return ReadyForQuery{Status: TransactionStatus(b)}, nil
	default:
		return ReadyForQuery{}, &UnsupportedTransactionStatusError{Byte: b}
	}
}

// RowField describes one column of a RowDescription.
//
// Format can be 0 ("unresolved") when RowDescription follows a Describe
// issued before any Bind: per spec.md's open question, callers must treat
// that as "not yet known" rather than assuming Text.
type RowField struct {
	Name        string
	TableOID    oid.Oid
	Column      int16
	DataTypeOID oid.Oid
	Size        int16
	Modifier    int32
	Format      Format
}

// FormatResolved reports whether Format reflects an actual bind-time
// choice rather than the "unknown" default.
func (f RowField) FormatResolved(hasBoundResultFormat bool) bool {
	return hasBoundResultFormat || f.Format != Text
}

// RowDescription describes the columns of an upcoming set of DataRows.
type RowDescription struct {
	Fields []RowField
}

func (RowDescription) sealed() {}

func decodeRowDescription(r *reader, cs Charset) (RowDescription, error) {
	n, err := r.int16()
	if err != nil {
		return RowDescription{}, err
	}
	fields := make([]RowField, n)
	for i := range fields {
		name, err := r.cstring(cs)
		if err != nil {
			return RowDescription{}, err
		}
		tableOID, err := r.oidVal()
		if err != nil {
			return RowDescription{}, err
		}
		column, err := r.int16()
		if err != nil {
			return RowDescription{}, err
		}
		dataTypeOID, err := r.oidVal()
		if err != nil {
			return RowDescription{}, err
		}
		size, err := r.int16()
		if err != nil {
			return RowDescription{}, err
		}
		modifier, err := r.int32()
		if err != nil {
			return RowDescription{}, err
		}
		formatTag, err := r.int16()
		if err != nil {
			return RowDescription{}, err
		}
		format, err := decodeFormat(formatTag)
		if err != nil {
			return RowDescription{}, err
		}
		fields[i] = RowField{
			Name:        name,
			TableOID:    oid.Oid(tableOID),
			Column:      column,
			DataTypeOID: oid.Oid(dataTypeOID),
			Size:        size,
			Modifier:    modifier,
			Format:      format,
		}
	}
	return RowDescription{Fields: fields}, nil
}

// DecodeBackendMessage dispatches on the wire type byte, decoding payload
// (which must already be exactly contentLength bytes, per spec.md §4.3)
// into the corresponding BackendMessage. An unrecognized code fails with
// *UnsupportedMessageTypeError; every other decode failure is wrapped in
// *DecodeError.
func DecodeBackendMessage(code byte, cs Charset, payload []byte) (msg BackendMessage, err error) {
	defer func() {
		if err == nil {
			return
		}
		if _, ok := err.(*UnsupportedMessageTypeError); ok {
			return
		}
		err = &DecodeError{Code: code, Err: err}
	}()

	r := newFieldReader(payload)
	switch proto.ResponseCode(code) {
	case proto.AuthenticationRequest:
		return decodeAuthenticationRequest(r)
	case proto.BackendKeyData:
		return decodeBackendKeyData(r)
	case proto.BindComplete:
		return BindComplete{}, nil
	case proto.CloseComplete:
		return CloseComplete{}, nil
	case proto.CommandComplete:
		return decodeCommandComplete(r, cs)
	case proto.CopyDataResponse:
		return CopyDataBackend{Data: append([]byte(nil), r.remaining()...)}, nil
	case proto.CopyDoneResponse:
		return CopyDoneBackend{}, nil
	case proto.CopyInResponse:
		overall, cols, err := decodeCopyFormats(r)
		if err != nil {
			return nil, err
		}
		return CopyInResponse{OverallFormat: overall, ColumnFormats: cols}, nil
	case proto.CopyOutResponse:
		overall, cols, err := decodeCopyFormats(r)
		if err != nil {
			return nil, err
		}
		return CopyOutResponse{OverallFormat: overall, ColumnFormats: cols}, nil
	case proto.CopyBothResponse:
		overall, cols, err := decodeCopyFormats(r)
		if err != nil {
			return nil, err
		}
		return CopyBothResponse{OverallFormat: overall, ColumnFormats: cols}, nil
	case proto.DataRow:
		return decodeDataRow(r)
	case proto.EmptyQueryResponse:
		return EmptyQueryResponse{}, nil
	case proto.ErrorResponse:
		fields, err := decodeResponseFields(r, cs)
		if err != nil {
			return nil, err
		}
		return ErrorResponse{Fields: fields}, nil
	case proto.FunctionCallResponse:
		return decodeFunctionCallResponse(r)
	case proto.NoData:
		return NoData{}, nil
	case proto.NoticeResponse:
		fields, err := decodeResponseFields(r, cs)
		if err != nil {
			return nil, err
		}
		return NoticeResponse{Fields: fields}, nil
	case proto.NotificationResponse:
		return decodeNotificationResponse(r, cs)
	case proto.ParameterDescription:
		return decodeParameterDescription(r)
	case proto.ParameterStatus:
		return decodeParameterStatus(r, cs)
	case proto.ParseComplete:
		return ParseComplete{}, nil
	case proto.PortalSuspended:
		return PortalSuspended{}, nil
	case proto.ReadyForQuery:
		return decodeReadyForQuery(r)
	case proto.RowDescription:
		return decodeRowDescription(r, cs)
	default:
		return nil, &UnsupportedMessageTypeError{Code: code}
	}
}
