// Package oid holds the PostgreSQL type OID, the opaque numeric identifier
// attached to every RowDescription field and FunctionCall target.
//
// pgproto treats OIDs as opaque; it does not carry a SQL type system (see
// spec.md §1 Non-goals). This package exists only so the wire types have a
// named, documented integer instead of a bare int32.
package oid

// Oid is a PostgreSQL object identifier, as seen on the wire in
// RowDescription.dataTypeOid, ParameterDescription entries, and
// FunctionCall's target OID.
type Oid uint32

// Unknown is the OID PostgreSQL reports for untyped literals and parameters
// whose type could not be inferred.
const Unknown Oid = 0
