package dsl

import (
	bitlayout "github.com/reoring/bitlayout"
)

type layoutBuilder struct {
	cfg  bitlayout.Config
	opts []bitlayout.Option
}

type fieldStep struct {
	b    *layoutBuilder
	name string
}

// New creates an empty layout builder.
func New() *layoutBuilder {
	return &layoutBuilder{cfg: bitlayout.Config{}}
}

func (b *layoutBuilder) field(name string, f bitlayout.Field) *fieldStep {
	b.cfg[name] = f
	return &fieldStep{b: b, name: name}
}

// Bool registers a one-bit flag field.
func (b *layoutBuilder) Bool(name string, start int) *fieldStep {
	return b.field(name, bitlayout.Field{Start: start, Width: 1, Type: "bool"})
}

// Uint registers an unsigned integer field.
func (b *layoutBuilder) Uint(name string, start, width int) *fieldStep {
	return b.field(name, bitlayout.Field{Start: start, Width: width, Type: "unsigned"})
}

// Int registers a signed (two's complement) integer field.
func (b *layoutBuilder) Int(name string, start, width int) *fieldStep {
	return b.field(name, bitlayout.Field{Start: start, Width: width, Type: "signed"})
}

// Reserved registers a read-as-absent bit range.
func (b *layoutBuilder) Reserved(name string, start, width int) *layoutBuilder {
	b.field(name, bitlayout.Field{Start: start, Width: width, Type: "reserved"})
	return b
}

// Nested registers a tagged sub-layout whose active variant is picked by the
// named sibling selector.
func (b *layoutBuilder) Nested(name string, start, width int, selector string, variants ...bitlayout.Config) *fieldStep {
	return b.field(name, bitlayout.Field{
		Start:    start,
		Width:    width,
		Type:     "nested",
		Selector: selector,
		Subtype:  variants,
	})
}

// Default sets the current field's default value and returns the builder.
func (f *fieldStep) Default(v any) *layoutBuilder {
	fd := f.b.cfg[f.name]
	fd.Default = v
	f.b.cfg[f.name] = fd
	return f.b
}

// Describe attaches free-text documentation to the current field.
func (f *fieldStep) Describe(text string) *fieldStep {
	fd := f.b.cfg[f.name]
	fd.Description = text
	f.b.cfg[f.name] = fd
	return f
}

// Valid constrains the decoded values the field may hold for Valid/Inspect.
func (f *fieldStep) Valid(v *bitlayout.Valid) *fieldStep {
	fd := f.b.cfg[f.name]
	fd.Valid = v
	f.b.cfg[f.name] = fd
	return f
}

// Chaining pass-throughs so a field step can flow straight into the next
// field or into Build.
func (f *fieldStep) Bool(name string, start int) *fieldStep { return f.b.Bool(name, start) }
func (f *fieldStep) Uint(name string, start, width int) *fieldStep {
	return f.b.Uint(name, start, width)
}
func (f *fieldStep) Int(name string, start, width int) *fieldStep {
	return f.b.Int(name, start, width)
}
func (f *fieldStep) Reserved(name string, start, width int) *layoutBuilder {
	return f.b.Reserved(name, start, width)
}
func (f *fieldStep) Nested(name string, start, width int, selector string, variants ...bitlayout.Config) *fieldStep {
	return f.b.Nested(name, start, width, selector, variants...)
}
func (f *fieldStep) Title(title string) *layoutBuilder { return f.b.Title(title) }
func (f *fieldStep) Verifier(fn func(*bitlayout.Instance) bool) *layoutBuilder {
	return f.b.Verifier(fn)
}
func (f *fieldStep) Config() bitlayout.Config          { return f.b.Config() }
func (f *fieldStep) Build() (*bitlayout.Layout, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() *bitlayout.Layout      { return f.b.MustBuild() }

// Title attaches a layout title.
func (b *layoutBuilder) Title(title string) *layoutBuilder {
	b.opts = append(b.opts, bitlayout.WithTitle(title))
	return b
}

// Verifier attaches a whole-instance verification hook.
func (b *layoutBuilder) Verifier(fn func(*bitlayout.Instance) bool) *layoutBuilder {
	b.opts = append(b.opts, bitlayout.WithVerifier(fn))
	return b
}

// Config returns the raw description accumulated so far, usable as a nested
// field's variant.
func (b *layoutBuilder) Config() bitlayout.Config { return b.cfg }

// Build compiles the accumulated description.
func (b *layoutBuilder) Build() (*bitlayout.Layout, error) {
	return bitlayout.Compile(b.cfg, b.opts...)
}

// MustBuild is like Build but panics on error.
func (b *layoutBuilder) MustBuild() *bitlayout.Layout {
	l, err := b.Build()
	if err != nil {
		panic(err)
	}
	return l
}
