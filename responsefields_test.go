package pgproto

import "testing"

func TestDecodeResponseFieldsWhereSplitsOnNewline(t *testing.T) {
	var payload []byte
	payload = append(payload, FieldWhere)
	payload = append(payload, "PL/pgSQL function foo()\nSQL statement \"select 1\"\x00"...)
	payload = append(payload, FieldPosition)
	payload = append(payload, "17\x00"...)
	payload = append(payload, 0)

	r := newFieldReader(payload)
	fields, err := decodeResponseFields(r, UTF8)
	if err != nil {
		t.Fatalf("decodeResponseFields: %v", err)
	}

	where := fields.Where()
	if len(where) != 2 || where[0] != "PL/pgSQL function foo()" || where[1] != `SQL statement "select 1"` {
		t.Fatalf("Where() = %#v", where)
	}

	pos, ok := fields.Position()
	if !ok || pos != 17 {
		t.Fatalf("Position() = %d, %v, want 17, true", pos, ok)
	}
}

func TestResponseFieldsMissingFieldsAreZeroValue(t *testing.T) {
	fields := ResponseFields{raw: map[byte]string{}}
	if fields.Severity() != "" {
		t.Fatalf("Severity() on empty fields = %q, want empty", fields.Severity())
	}
	if _, ok := fields.Position(); ok {
		t.Fatalf("Position() on empty fields should report ok=false")
	}
	if fields.Where() != nil {
		t.Fatalf("Where() on empty fields should be nil")
	}
}
