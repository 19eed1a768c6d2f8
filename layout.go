package bitlayout

import (
	"fmt"
	"sort"
)

// MaxWidth is the widest layout an Instance can back. Values are held in a
// single uint64.
const MaxWidth = 64

// Layout is a compiled, immutable description of named bit ranges. It is
// created once per record type and may be shared by any number of Instances;
// it is safe for unsynchronized concurrent reads.
type Layout struct {
	fields   []*field          // ascending start order
	byName   map[string]*field // O(1) lookup
	width    int
	defaults uint64 // cached all-defaults value, reused by New and Reset
	config   Config // deep copy of the original description
	title    string
	verifier func(*Instance) bool
}

// field pairs a validated descriptor with its precomputed bit mask (already
// shifted into place) and shift amount.
type field struct {
	name     string
	spec     Field
	kind     Kind
	mask     uint64 // in-place mask covering [start, start+width)
	shift    uint
	variants []*Layout // compiled variant layouts, nested fields only
	selector *field    // resolved sibling, nested fields only
}

// Option adjusts layout compilation.
type Option func(*Layout)

// WithTitle attaches a human-readable title, used by documentation renderers.
func WithTitle(title string) Option {
	return func(l *Layout) { l.title = title }
}

// WithVerifier attaches a whole-instance verification hook consulted by
// Instance.Verify.
func WithVerifier(fn func(*Instance) bool) Option {
	return func(l *Layout) { l.verifier = fn }
}

// Compile validates a layout description and produces an immutable Layout.
// The description is deep-copied; later mutation of cfg does not affect the
// result. All malformed-description conditions surface as Issues carrying
// configuration codes.
func Compile(cfg Config, opts ...Option) (*Layout, error) {
	l, iss := compileLevel(cfg.clone(), "", false)
	if len(iss) > 0 {
		return nil, iss
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.title == "" {
		l.title = "Layout"
	}
	return l, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(cfg Config, opts ...Option) *Layout {
	l, err := Compile(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

// compileLevel compiles one nesting level. path prefixes issue paths with the
// nested context ("" at the top level). allowEmpty permits a zero-field
// layout, which is legal only for a variant that is never selected.
func compileLevel(cfg Config, path string, allowEmpty bool) (*Layout, Issues) {
	var iss Issues
	if len(cfg) == 0 && !allowEmpty {
		return nil, Issues{issueAt(path+"/", CodeEmptyLayout, "layout has no fields", nil)}
	}

	fields := make([]*field, 0, len(cfg))
	for name, spec := range cfg {
		fpath := path + "/" + name
		if fi := validateField(fpath, name, spec); len(fi) > 0 {
			iss = AppendIssues(iss, fi...)
			continue
		}
		kind, _ := ParseKind(spec.Type)
		fields = append(fields, &field{
			name:  name,
			spec:  spec,
			kind:  kind,
			mask:  maskBits(spec.Width) << uint(spec.Start),
			shift: uint(spec.Start),
		})
	}
	if len(iss) > 0 {
		return nil, iss
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].spec.Start < fields[j].spec.Start })

	// Walk in start order tracking the furthest occupied bit; any field that
	// starts before it intersects the field that claimed it.
	width := 0
	var claimed *field
	for _, f := range fields {
		if claimed != nil && f.spec.Start < width {
			iss = AppendIssues(iss, issueAt(path+"/"+f.name, CodeOverlap,
				fmt.Sprintf("bits [%d,%d) of %q overlap %q", f.spec.Start, f.spec.Start+f.spec.Width, f.name, claimed.name),
				map[string]any{"field": f.name, "other": claimed.name}))
		}
		if end := f.spec.Start + f.spec.Width; end > width {
			width = end
			claimed = f
		}
	}
	if width > MaxWidth {
		iss = AppendIssues(iss, issueAt(path+"/", CodeWidthExceeded,
			fmt.Sprintf("total width %d exceeds the %d-bit maximum", width, MaxWidth),
			map[string]any{"width": width, "max": MaxWidth}))
	}
	if len(iss) > 0 {
		return nil, iss
	}

	l := &Layout{
		fields: fields,
		byName: make(map[string]*field, len(fields)),
		width:  width,
		config: cfg,
	}
	for _, f := range fields {
		l.byName[f.name] = f
	}

	// Resolve selectors and recursively compile variants.
	for _, f := range fields {
		if f.kind != KindNested {
			continue
		}
		fpath := path + "/" + f.name
		sel, ok := l.byName[f.spec.Selector]
		if !ok {
			iss = AppendIssues(iss, issueAt(fpath, CodeMissingSelector,
				fmt.Sprintf("selector %q is not a sibling field", f.spec.Selector), nil))
			continue
		}
		if sel.kind != KindBool && sel.kind != KindUnsigned {
			iss = AppendIssues(iss, issueAt(fpath, CodeSelectorKind,
				fmt.Sprintf("selector %q must be bool or unsigned, not %s", sel.name, sel.kind), nil))
			continue
		}
		f.selector = sel
		f.variants = make([]*Layout, len(f.spec.Subtype))
		for i, sub := range f.spec.Subtype {
			vl, vIss := compileLevel(sub, fmt.Sprintf("%s[%d]", fpath, i), true)
			if len(vIss) > 0 {
				iss = AppendIssues(iss, vIss...)
				continue
			}
			if vl.width > f.spec.Width {
				iss = AppendIssues(iss, issueAt(fmt.Sprintf("%s[%d]", fpath, i), CodeWidthExceeded,
					fmt.Sprintf("variant width %d exceeds the nested field's %d bits", vl.width, f.spec.Width),
					map[string]any{"width": vl.width, "max": f.spec.Width}))
				continue
			}
			vl.title = fmt.Sprintf("%s: %s = %d", f.name, sel.name, i)
			f.variants[i] = vl
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	l.defaults = l.computeDefaults()
	return l, nil
}

// computeDefaults encodes every field's default into the cached zero-argument
// value. Scalars go first so nested fields can consult their selector's
// default when choosing which variant's defaults to splice in. A selector
// default pointing past the variant list leaves the nested window zero.
func (l *Layout) computeDefaults() uint64 {
	var v uint64
	for _, f := range l.fields {
		if !f.kind.IsScalar() {
			continue
		}
		raw := f.encodeDefault()
		v = (v &^ f.mask) | (raw<<f.shift)&f.mask
	}
	for _, f := range l.fields {
		if f.kind != KindNested {
			continue
		}
		idx := int((v & f.selector.mask) >> f.selector.shift)
		if idx >= len(f.variants) || f.variants[idx] == nil {
			continue
		}
		raw := f.variants[idx].defaults
		v = (v &^ f.mask) | (raw<<f.shift)&f.mask
	}
	return v
}

// defaultValue returns the canonical default for a scalar field: false/0 when
// the description omits one.
func (f *field) defaultValue() any {
	if f.spec.Default == nil {
		if f.kind == KindBool {
			return false
		}
		return int64(0)
	}
	return f.spec.Default
}

// Width returns the total bit width of the layout.
func (l *Layout) Width() int { return l.width }

// Title returns the layout's title.
func (l *Layout) Title() string { return l.title }

// Config returns the layout's original field-descriptor mapping. It is shared
// by every Instance of the layout and must be treated as read-only.
func (l *Layout) Config() Config { return l.config }

// FieldNames returns the field names in ascending start order.
func (l *Layout) FieldNames() []string {
	names := make([]string, len(l.fields))
	for i, f := range l.fields {
		names[i] = f.name
	}
	return names
}

// FieldSpec returns the raw descriptor of a named field.
func (l *Layout) FieldSpec(name string) (Field, bool) {
	f, ok := l.byName[name]
	if !ok {
		return Field{}, false
	}
	return f.spec, true
}

// Variant returns the compiled layout of a nested field's i-th variant.
func (l *Layout) Variant(name string, i int) (*Layout, bool) {
	f, ok := l.byName[name]
	if !ok || f.kind != KindNested || i < 0 || i >= len(f.variants) {
		return nil, false
	}
	return f.variants[i], f.variants[i] != nil
}

// maskBits returns a mask of the low w bits.
func maskBits(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<w - 1
}
