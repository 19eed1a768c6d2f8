package bitlayout

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ToInt returns the instance's backing value unchanged.
func (in *Instance) ToInt() uint64 { return in.value }

// ToBytes returns the minimal big-endian representation: ceil(width/8) bytes,
// most significant byte first, zero padded.
func (in *Instance) ToBytes() []byte {
	n := (in.layout.width + 7) / 8
	out := make([]byte, n)
	v := in.value
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// ToJSON produces the JSON-compatible mapping: booleans and integers for
// scalars, nil for reserved fields, and a recursively resolved mapping for
// the active variant of each nested field. Fields of non-selected variants
// never appear. It fails when a selector value has no variant.
func (in *Instance) ToJSON() (map[string]any, error) {
	out := make(map[string]any, len(in.layout.fields))
	for _, f := range in.layout.fields {
		switch f.kind {
		case KindReserved:
			out[f.name] = nil
		case KindNested:
			child, iss := in.resolve(f)
			if iss != nil {
				return nil, iss
			}
			sub, err := child.ToJSON()
			if err != nil {
				return nil, err
			}
			out[f.name] = sub
		default:
			out[f.name] = f.decode(in.window(f))
		}
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler over the ToJSON mapping.
func (in *Instance) MarshalJSON() ([]byte, error) {
	m, err := in.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// String renders the instance as its JSON mapping, falling back to the raw
// value when a selector is unresolvable.
func (in *Instance) String() string {
	m, err := in.ToJSON()
	if err != nil {
		return fmt.Sprintf("%s(0x%X)", in.layout.title, in.value)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprintf("%s(0x%X)", in.layout.title, in.value)
	}
	return fmt.Sprintf("%s(%s)", in.layout.title, b)
}
