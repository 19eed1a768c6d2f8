// Package markdown renders a compiled layout's field metadata as markdown
// tables for documentation. It consumes only the public Layout surface and
// never touches instance state.
package markdown

import (
	"fmt"
	"strings"

	bitlayout "github.com/reoring/bitlayout"
)

// Options adjusts rendering.
type Options struct {
	// IncludeTypes adds the Type column.
	IncludeTypes bool
}

// Render produces one markdown table per layout, the root first followed by
// every nested variant in field order. Types are included.
func Render(l *bitlayout.Layout) []string {
	return RenderWithOptions(l, Options{IncludeTypes: true})
}

// RenderWithOptions is Render with explicit options.
func RenderWithOptions(l *bitlayout.Layout, opts Options) []string {
	var tables []string
	renderLayout(l, opts, &tables)
	return tables
}

func renderLayout(l *bitlayout.Layout, opts Options, tables *[]string) {
	b := &strings.Builder{}
	fmt.Fprintf(b, "### %s\n\n", l.Title())
	if opts.IncludeTypes {
		b.WriteString("| Name | Type | Bitfield | Default | Description |\n")
		b.WriteString("|---|---|---|---|---|\n")
	} else {
		b.WriteString("| Name | Bitfield | Default | Description |\n")
		b.WriteString("|---|---|---|---|\n")
	}

	currentBit := 0
	var rows []string
	var nested []string
	for _, name := range l.FieldNames() {
		spec, _ := l.FieldSpec(name)
		end := spec.Start + spec.Width - 1

		// Gaps between declared fields render as Undefined rows.
		if spec.Start > currentBit {
			rows = append(rows, undefinedRow(currentBit, spec.Start, opts))
		}

		bitfield := fmt.Sprintf("%d", spec.Start)
		if spec.Width > 1 {
			bitfield = fmt.Sprintf("%d:%d", end, spec.Start)
		}
		deflt := "N/A"
		if spec.Default != nil {
			deflt = fmt.Sprintf("%v", spec.Default)
		}
		desc := describe(spec)
		if spec.Type == "nested" {
			deflt = "N/A"
			desc = fmt.Sprintf("See %s definition table.", name)
			nested = append(nested, name)
		}

		if opts.IncludeTypes {
			rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s | %s |", name, spec.Type, bitfield, deflt, desc))
		} else {
			rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s |", name, bitfield, deflt, desc))
		}
		currentBit = end + 1
	}

	b.WriteString(strings.Join(rows, "\n"))
	*tables = append(*tables, b.String())

	for _, name := range nested {
		spec, _ := l.FieldSpec(name)
		for i := range spec.Subtype {
			if vl, ok := l.Variant(name, i); ok {
				renderLayout(vl, opts, tables)
			}
		}
	}
}

func undefinedRow(from, to int, opts Options) string {
	bitfield := fmt.Sprintf("%d", from)
	if to-from > 1 {
		bitfield = fmt.Sprintf("%d-%d", from, to-1)
	}
	if opts.IncludeTypes {
		return fmt.Sprintf("| Undefined | N/A | %s | N/A | N/A |", bitfield)
	}
	return fmt.Sprintf("| Undefined | %s | N/A | N/A |", bitfield)
}

// describe folds the description and any valid constraint into one cell.
func describe(spec bitlayout.Field) string {
	desc := spec.Description
	if spec.Valid == nil {
		return desc
	}
	var parts []string
	if desc != "" {
		parts = append(parts, desc)
	}
	if len(spec.Valid.Values) > 0 {
		parts = append(parts, fmt.Sprintf("Valid values: %v.", spec.Valid.Values))
	}
	if len(spec.Valid.Ranges) > 0 {
		rs := make([]string, len(spec.Valid.Ranges))
		for i, r := range spec.Valid.Ranges {
			rs[i] = fmt.Sprintf("[%d,%d)", r.Min, r.Max)
		}
		parts = append(parts, fmt.Sprintf("Valid ranges: %s.", strings.Join(rs, ", ")))
	}
	return strings.Join(parts, " ")
}
