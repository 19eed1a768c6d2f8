package bitlayout

// Config is one level of a layout description: field name -> raw descriptor.
// It is the sole wire format the compiler consumes; JSON and YAML loaders
// both normalize into it.
type Config map[string]Field

// Field is one raw field descriptor prior to compilation.
type Field struct {
	// Start is the bit offset of the field's least significant bit (LSB = 0).
	Start int `json:"start" yaml:"start"`
	// Width is the number of bits the field occupies. Must be positive.
	Width int `json:"width" yaml:"width"`
	// Type is the wire name of the field kind: "bool", "unsigned", "signed",
	// "reserved" or "nested".
	Type string `json:"type" yaml:"type"`
	// Default is the field's default value. Booleans take true/false; integer
	// kinds accept only the sentinels 0, 1 and -1 (-1 meaning all bits set for
	// unsigned fields). Forbidden for reserved and nested fields.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`
	// Description is optional free text carried into field metadata and the
	// markdown renderer.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Selector names a sibling bool/unsigned field whose decoded value picks
	// the active variant. Required for nested fields, forbidden otherwise.
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
	// Subtype is the ordered variant list of a nested field, indexed by the
	// selector's decoded value. Required for nested fields.
	Subtype []Config `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	// Valid optionally constrains the decoded values considered valid. Only
	// meaningful on scalar kinds and only consulted by Valid/Inspect, never
	// by Set.
	Valid *Valid `json:"valid,omitempty" yaml:"valid,omitempty"`
}

// Valid constrains the set of decoded values a scalar field may hold for
// Instance.Valid and Instance.Inspect. A value is valid when it appears in
// Values or falls inside any of Ranges.
type Valid struct {
	Values []int64      `json:"value,omitempty" yaml:"value,omitempty"`
	Ranges []ValidRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// ValidRange is a half-open interval [Min, Max).
type ValidRange struct {
	Min int64 `json:"min" yaml:"min"`
	Max int64 `json:"max" yaml:"max"`
}

// Contains reports whether v is allowed by the constraint.
func (v *Valid) Contains(n int64) bool {
	if v == nil {
		return true
	}
	for _, allowed := range v.Values {
		if n == allowed {
			return true
		}
	}
	for _, r := range v.Ranges {
		if n >= r.Min && n < r.Max {
			return true
		}
	}
	return false
}

func (v *Valid) empty() bool {
	return v == nil || (len(v.Values) == 0 && len(v.Ranges) == 0)
}

// clone returns a deep copy of the config so a compiled Layout never aliases
// caller-owned maps.
func (c Config) clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for name, f := range c {
		out[name] = f.clone()
	}
	return out
}

func (f Field) clone() Field {
	nf := f
	if f.Valid != nil {
		v := &Valid{}
		v.Values = append([]int64(nil), f.Valid.Values...)
		v.Ranges = append([]ValidRange(nil), f.Valid.Ranges...)
		nf.Valid = v
	}
	if f.Subtype != nil {
		nf.Subtype = make([]Config, len(f.Subtype))
		for i, sub := range f.Subtype {
			nf.Subtype[i] = sub.clone()
		}
	}
	return nf
}

// asInt64 coerces the integer-ish values produced by programmatic callers and
// by the JSON/YAML decoders into an int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case float32:
		if float64(n) != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
