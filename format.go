package pgproto

// Format is the wire representation of a bound parameter or a result
// column: either human-readable text or the type's binary form.
type Format int16

const (
	Text   Format = 0
	Binary Format = 1
)

func decodeFormat(tag int16) (Format, error) {
	switch Format(tag) {
	case Text, Binary:
		return Format(tag), nil
	default:
		return 0, &UnsupportedFormatTypeError{Tag: tag}
	}
}

// FieldFormats describes the format of every parameter or result column in
// a Bind or FunctionCall message. The default (zero value) encodes as
// "absent": all fields are Text. Matched applies one format to every
// column; Mixed gives each column its own.
//
// At most one of the two modes is active; use NewMatchedFormats /
// NewMixedFormats to build one, or the zero value for "absent".
type FieldFormats struct {
	matched bool
	mixed   bool
	format  Format
	formats []Format
}

// NewMatchedFormats returns a FieldFormats where all n columns share format.
func NewMatchedFormats(format Format, n int) FieldFormats {
	return FieldFormats{matched: true, format: format}
}

// NewMixedFormats returns a FieldFormats giving each column its own format.
func NewMixedFormats(formats []Format) FieldFormats {
	return FieldFormats{mixed: true, formats: formats}
}

// encode writes [count:i16] followed by that many format tags, per
// spec.md §3: absent is [0], Matched is [1][format], Mixed is [n][formats...].
func (f FieldFormats) encode(w *writer) {
	switch {
	case f.mixed:
		w.int16(int16(len(f.formats)))
		for _, fmt := range f.formats {
			w.int16(int16(fmt))
		}
	case f.matched:
		w.int16(1)
		w.int16(int16(f.format))
	default:
		w.int16(0)
	}
}

// At returns the format that applies to the i-th of n columns.
func (f FieldFormats) At(i, n int) Format {
	switch {
	case f.mixed:
		if i < len(f.formats) {
			return f.formats[i]
		}
		return Text
	case f.matched:
		return f.format
	default:
		return Text
	}
}

func decodeFieldFormats(r *reader) (FieldFormats, error) {
	count, err := r.int16()
	if err != nil {
		return FieldFormats{}, err
	}
	switch count {
	case 0:
		return FieldFormats{}, nil
	case 1:
		tag, err := r.int16()
		if err != nil {
			return FieldFormats{}, err
		}
		format, err := decodeFormat(tag)
		if err != nil {
			return FieldFormats{}, err
		}
		return NewMatchedFormats(format, 1), nil
	default:
		formats := make([]Format, count)
		for i := range formats {
			tag, err := r.int16()
			if err != nil {
				return FieldFormats{}, err
			}
			format, err := decodeFormat(tag)
			if err != nil {
				return FieldFormats{}, err
			}
			formats[i] = format
		}
		return NewMixedFormats(formats), nil
	}
}
