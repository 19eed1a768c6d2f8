package bitlayout

import "fmt"

// asUint64 coerces integer-ish values into a uint64, rejecting negatives and
// non-integral floats.
func asUint64(v any) (uint64, bool) {
	if u, ok := v.(uint64); ok {
		return u, true
	}
	if u, ok := v.(uint); ok {
		return uint64(u), true
	}
	n, ok := asInt64(v)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// encode turns a caller value into the field's raw bit pattern (unshifted).
// The value is fully validated before the caller splices it, so a failed set
// never leaves an Instance partially mutated.
func (f *field) encode(path string, v any) (uint64, Issues) {
	switch f.kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return 0, Issues{issueAt(path, CodeInvalidType, fmt.Sprintf("expected bool for %q, got %T", f.name, v), nil)}
		}
		if b {
			return 1, nil
		}
		return 0, nil

	case KindUnsigned:
		u, ok := asUint64(v)
		if !ok {
			return 0, Issues{issueAt(path, CodeInvalidType, fmt.Sprintf("expected unsigned integer for %q, got %v (%T)", f.name, v, v), nil)}
		}
		if f.spec.Width < 64 && u >= uint64(1)<<f.spec.Width {
			return 0, Issues{issueAt(path, CodeOutOfRange,
				fmt.Sprintf("value %d out of range for %d-bit unsigned field %q", u, f.spec.Width, f.name),
				map[string]any{"min": 0, "max": maskBits(f.spec.Width), "got": u})}
		}
		return u, nil

	case KindSigned:
		n, ok := asInt64(v)
		if !ok {
			return 0, Issues{issueAt(path, CodeInvalidType, fmt.Sprintf("expected integer for %q, got %v (%T)", f.name, v, v), nil)}
		}
		lo, hi := scalarBounds(KindSigned, f.spec.Width)
		if n < lo || n > hi {
			return 0, Issues{issueAt(path, CodeOutOfRange,
				fmt.Sprintf("value %d out of range for %d-bit signed field %q", n, f.spec.Width, f.name),
				map[string]any{"min": lo, "max": hi, "got": n})}
		}
		// Two's complement within the window.
		return uint64(n) & maskBits(f.spec.Width), nil

	case KindReserved:
		return 0, Issues{issueAt(path, CodeReservedField, fmt.Sprintf("field %q is reserved", f.name), nil)}

	default:
		// Nested fields never encode as a scalar; variant resolution lives in
		// the instance engine.
		return 0, Issues{issueAt(path, CodeInvalidType, fmt.Sprintf("field %q is nested", f.name), nil)}
	}
}

// decode turns a raw window value into the field's decoded representation:
// bool, uint64, int64 or nil for reserved fields.
func (f *field) decode(raw uint64) any {
	switch f.kind {
	case KindBool:
		return raw != 0
	case KindUnsigned:
		return raw
	case KindSigned:
		if f.spec.Width < 64 && raw&(uint64(1)<<(f.spec.Width-1)) != 0 {
			return int64(raw | ^maskBits(f.spec.Width))
		}
		return int64(raw)
	case KindReserved:
		return nil
	default:
		return nil
	}
}

// decodedInt renders the decoded value as an int64 for valid-constraint
// checks (bool maps to 0/1).
func (f *field) decodedInt(raw uint64) int64 {
	switch f.kind {
	case KindSigned:
		v, _ := f.decode(raw).(int64)
		return v
	default:
		return int64(raw)
	}
}

// encodeDefault produces the raw bit pattern of the field's default. The
// unsigned sentinel -1 means all bits set; other values went through
// validation already.
func (f *field) encodeDefault() uint64 {
	d := f.defaultValue()
	if f.kind == KindUnsigned {
		if n, ok := asInt64(d); ok && n == -1 {
			return maskBits(f.spec.Width)
		}
	}
	raw, _ := f.encode("", d)
	return raw
}
