package bitlayout

import (
	"fmt"
	"iter"
	"sort"
)

// Instance is a single integer value interpreted according to a Layout. The
// Layout is shared and read-only; all mutation replaces the instance's value.
// An Instance assumes at most one mutator at a time; concurrent writers need
// external synchronization.
type Instance struct {
	layout *Layout
	value  uint64

	// Transient nested views splice writes back through their parent. Both
	// fields are nil on a root instance.
	parent      *Instance
	parentField *field
}

// New returns an instance with every field at its default.
func (l *Layout) New() *Instance {
	return &Instance{layout: l, value: l.defaults}
}

// FromInt returns an instance backed by v. v must fit in the layout's width.
func (l *Layout) FromInt(v uint64) (*Instance, error) {
	if l.width < 64 && v >= uint64(1)<<l.width {
		return nil, Issues{issueAt("/", CodeOutOfRange,
			fmt.Sprintf("value %d exceeds the maximum for a %d-bit layout", v, l.width),
			map[string]any{"max": maskBits(l.width), "got": v})}
	}
	return &Instance{layout: l, value: v}, nil
}

// FromBytes returns an instance decoded from a big-endian byte string.
// Shorter inputs are zero-extended on the high end; longer ones are rejected.
func (l *Layout) FromBytes(b []byte) (*Instance, error) {
	max := (l.width + 7) / 8
	if len(b) > max {
		return nil, Issues{issueAt("/", CodeOutOfRange,
			fmt.Sprintf("%d bytes is too long for a %d-bit layout", len(b), l.width),
			map[string]any{"max": max, "got": len(b)})}
	}
	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}
	return l.FromInt(v)
}

// FromMap returns an instance that starts from the all-defaults value and
// applies every entry as a scoped write. Entries apply in sorted key order;
// an unknown name or out-of-range value aborts construction.
func (l *Layout) FromMap(m map[string]any) (*Instance, error) {
	in := l.New()
	if err := in.Update(m); err != nil {
		return nil, err
	}
	return in, nil
}

// Layout returns the instance's compiled layout.
func (in *Instance) Layout() *Layout { return in.layout }

// Len returns the layout's total bit width.
func (in *Instance) Len() int { return in.layout.width }

// Equal reports whether both instances share a layout and decode identically.
func (in *Instance) Equal(o *Instance) bool {
	return o != nil && in.layout == o.layout && in.value == o.value
}

// window extracts the field's raw bits, unshifted.
func (in *Instance) window(f *field) uint64 {
	return (in.value & f.mask) >> f.shift
}

// store replaces the instance value and, for a nested view, splices the new
// bits back through the parent chain.
func (in *Instance) store(v uint64) {
	in.value = v
	if in.parent != nil {
		f := in.parentField
		in.parent.store((in.parent.value &^ f.mask) | (v<<f.shift)&f.mask)
	}
}

// path returns the instance's position for error reporting ("" for roots).
func (in *Instance) path() string {
	if in.parent == nil {
		return ""
	}
	return in.parent.path() + "/" + in.parentField.name
}

func (in *Instance) lookup(name string) (*field, Issues) {
	f, ok := in.layout.byName[name]
	if !ok {
		return nil, Issues{issueAt(in.path()+"/"+name, CodeUnknownField,
			fmt.Sprintf("unknown field %q", name), nil)}
	}
	return f, nil
}

// resolve produces the transient view of a nested field's active variant. It
// is recomputed from the live selector value on every access so a selector
// change can never leave a stale variant behind.
func (in *Instance) resolve(f *field) (*Instance, Issues) {
	idx := int(in.window(f.selector))
	if idx >= len(f.variants) || f.variants[idx] == nil {
		return nil, Issues{issueAt(in.path()+"/"+f.name, CodeVariantIndex,
			fmt.Sprintf("selector %q value %d has no variant", f.selector.name, idx),
			map[string]any{"selector": f.selector.name, "got": idx, "variants": len(f.variants)})}
	}
	return &Instance{
		layout:      f.variants[idx],
		value:       in.window(f),
		parent:      in,
		parentField: f,
	}, nil
}

// Get returns the decoded value of a named field: bool, uint64 or int64 for
// scalars, nil for reserved fields, and a transient *Instance bound to the
// active variant for nested fields.
func (in *Instance) Get(name string) (any, error) {
	f, iss := in.lookup(name)
	if iss != nil {
		return nil, iss
	}
	switch f.kind {
	case KindReserved:
		return nil, nil
	case KindNested:
		child, iss := in.resolve(f)
		if iss != nil {
			return nil, iss
		}
		return child, nil
	default:
		return f.decode(in.window(f)), nil
	}
}

// GetBool returns a bool field's value.
func (in *Instance) GetBool(name string) (bool, error) {
	v, err := in.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, Issues{issueAt(in.path()+"/"+name, CodeInvalidType,
			fmt.Sprintf("field %q is not bool", name), nil)}
	}
	return b, nil
}

// GetUint returns an unsigned field's value.
func (in *Instance) GetUint(name string) (uint64, error) {
	v, err := in.Get(name)
	if err != nil {
		return 0, err
	}
	u, ok := v.(uint64)
	if !ok {
		return 0, Issues{issueAt(in.path()+"/"+name, CodeInvalidType,
			fmt.Sprintf("field %q is not unsigned", name), nil)}
	}
	return u, nil
}

// GetInt returns a signed field's value.
func (in *Instance) GetInt(name string) (int64, error) {
	v, err := in.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, Issues{issueAt(in.path()+"/"+name, CodeInvalidType,
			fmt.Sprintf("field %q is not signed", name), nil)}
	}
	return n, nil
}

// GetNested returns the transient view of a nested field's active variant.
func (in *Instance) GetNested(name string) (*Instance, error) {
	v, err := in.Get(name)
	if err != nil {
		return nil, err
	}
	child, ok := v.(*Instance)
	if !ok {
		return nil, Issues{issueAt(in.path()+"/"+name, CodeInvalidType,
			fmt.Sprintf("field %q is not nested", name), nil)}
	}
	return child, nil
}

// Set writes a named field. Scalar values are validated in full before any
// bit changes. A nested field accepts either a raw unsigned value for its
// whole window or a map applied to the active variant; reserved fields always
// reject writes.
func (in *Instance) Set(name string, v any) error {
	f, iss := in.lookup(name)
	if iss != nil {
		return iss
	}
	fpath := in.path() + "/" + name
	switch f.kind {
	case KindReserved:
		return Issues{issueAt(fpath, CodeReservedField, fmt.Sprintf("field %q is reserved", name), nil)}

	case KindNested:
		child, iss := in.resolve(f)
		if iss != nil {
			return iss
		}
		if m, ok := v.(map[string]any); ok {
			return child.Update(m)
		}
		u, ok := asUint64(v)
		if !ok {
			return Issues{issueAt(fpath, CodeInvalidType,
				fmt.Sprintf("expected map or unsigned integer for nested field %q, got %T", name, v), nil)}
		}
		if u > maskBits(f.spec.Width) {
			return Issues{issueAt(fpath, CodeOutOfRange,
				fmt.Sprintf("value %d exceeds the %d-bit window of %q", u, f.spec.Width, name),
				map[string]any{"max": maskBits(f.spec.Width), "got": u})}
		}
		child.store(u)
		return nil

	default:
		raw, iss := f.encode(fpath, v)
		if iss != nil {
			return iss
		}
		in.store((in.value &^ f.mask) | (raw<<f.shift)&f.mask)
		return nil
	}
}

// Update applies each entry through Set in sorted key order. Failure stops
// the walk but already applied entries remain: atomicity is per field, not
// per call.
func (in *Instance) Update(m map[string]any) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := in.Set(name, m[name]); err != nil {
			return err
		}
	}
	return nil
}

// Clear zeroes every bit.
func (in *Instance) Clear() { in.store(0) }

// Reset restores every field to its default.
func (in *Instance) Reset() { in.store(in.layout.defaults) }

// Contains reports whether the named field currently holds a truthy value:
// nonzero for integer kinds, true for bool, and for nested fields whether any
// field of the active variant is itself present. Unknown names and reserved
// fields are never present.
func (in *Instance) Contains(name string) bool {
	f, ok := in.layout.byName[name]
	if !ok {
		return false
	}
	return in.present(f)
}

func (in *Instance) present(f *field) bool {
	switch f.kind {
	case KindReserved:
		return false
	case KindNested:
		child, iss := in.resolve(f)
		if iss != nil {
			return false
		}
		for _, cf := range child.layout.fields {
			if child.present(cf) {
				return true
			}
		}
		return false
	default:
		return in.window(f) != 0
	}
}

// Fields iterates (name, decoded value) pairs over all non-reserved fields in
// ascending start order. Nested fields yield their transient resolved view,
// or nil when the selector has no variant. The sequence is restartable.
func (in *Instance) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, f := range in.layout.fields {
			if f.kind == KindReserved {
				continue
			}
			var v any
			if f.kind == KindNested {
				if child, iss := in.resolve(f); iss == nil {
					v = child
				}
			} else {
				v = f.decode(in.window(f))
			}
			if !yield(f.name, v) {
				return
			}
		}
	}
}

// Valid reports whether every constrained field currently holds an allowed
// value, recursing through active variants. A selector value with no variant
// is invalid.
func (in *Instance) Valid() bool {
	for _, f := range in.layout.fields {
		switch f.kind {
		case KindReserved:
		case KindNested:
			child, iss := in.resolve(f)
			if iss != nil || !child.Valid() {
				return false
			}
		default:
			if !f.spec.Valid.Contains(f.decodedInt(in.window(f))) {
				return false
			}
		}
	}
	return true
}

// Inspect returns the fields whose current values violate their valid
// constraints, mapped to the offending decoded value. Nested fields report a
// sub-map; an unresolvable selector reports its decoded value under the
// nested field's name. An empty map means the instance is valid.
func (in *Instance) Inspect() map[string]any {
	bad := map[string]any{}
	for _, f := range in.layout.fields {
		switch f.kind {
		case KindReserved:
		case KindNested:
			child, iss := in.resolve(f)
			if iss != nil {
				bad[f.name] = f.selector.decode(in.window(f.selector))
				continue
			}
			if sub := child.Inspect(); len(sub) > 0 {
				bad[f.name] = sub
			}
		default:
			if !f.spec.Valid.Contains(f.decodedInt(in.window(f))) {
				bad[f.name] = f.decode(in.window(f))
			}
		}
	}
	return bad
}

// Verify runs the layout's verification hook, if any.
func (in *Instance) Verify() bool {
	if in.layout.verifier == nil {
		return true
	}
	return in.layout.verifier(in)
}
