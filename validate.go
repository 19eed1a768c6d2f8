package bitlayout

import (
	"fmt"

	"github.com/reoring/bitlayout/i18n"
)

// isIdentifier reports whether name is usable as a field name: a letter or
// underscore followed by letters, digits or underscores.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func issueAt(path, code, hint string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint, Params: params}
}

// validateField checks one raw field descriptor in isolation. path already
// includes the field name so nested compilation reports full context.
func validateField(path, name string, f Field) Issues {
	var iss Issues

	if !isIdentifier(name) {
		iss = AppendIssues(iss, issueAt(path, CodeInvalidName, fmt.Sprintf("invalid field name %q", name), nil))
	}
	if f.Start < 0 {
		iss = AppendIssues(iss, issueAt(path, CodeInvalidStart, fmt.Sprintf("start must be >= 0, got %d", f.Start), map[string]any{"got": f.Start}))
	}
	if f.Width <= 0 {
		iss = AppendIssues(iss, issueAt(path, CodeInvalidWidth, fmt.Sprintf("width must be positive, got %d", f.Width), map[string]any{"got": f.Width}))
	}

	kind, ok := ParseKind(f.Type)
	if !ok {
		iss = AppendIssues(iss, issueAt(path, CodeInvalidKind, fmt.Sprintf("unknown field type %q", f.Type), nil))
		return iss
	}
	if kind == KindBool && f.Width != 1 {
		iss = AppendIssues(iss, issueAt(path, CodeInvalidWidth, "bool fields must have width 1", map[string]any{"got": f.Width}))
	}

	iss = AppendIssues(iss, validateDefault(path, kind, f)...)
	iss = AppendIssues(iss, validateValidSpec(path, kind, f)...)

	if kind == KindNested {
		if len(f.Subtype) == 0 {
			iss = AppendIssues(iss, issueAt(path, CodeMissingVariants, "nested fields require a non-empty subtype list", nil))
		}
		if f.Selector == "" {
			iss = AppendIssues(iss, issueAt(path, CodeMissingSelector, "nested fields require a selector", nil))
		}
	} else {
		if f.Selector != "" {
			iss = AppendIssues(iss, issueAt(path, CodeInvalidKind, "selector is only allowed on nested fields", nil))
		}
		if len(f.Subtype) != 0 {
			iss = AppendIssues(iss, issueAt(path, CodeInvalidKind, "subtype is only allowed on nested fields", nil))
		}
	}
	return iss
}

// validateDefault enforces the kind-dependent default rules: bool defaults
// are true/false, integer defaults are restricted to the sentinels 0, 1 and
// -1 (all bits set for unsigned fields), reserved and nested fields take no
// default at all.
func validateDefault(path string, kind Kind, f Field) Issues {
	if f.Default == nil {
		return nil
	}
	switch kind {
	case KindReserved:
		return Issues{issueAt(path, CodeDefaultForbidden, "reserved fields cannot have a default", nil)}
	case KindNested:
		return Issues{issueAt(path, CodeDefaultForbidden, "nested fields cannot have a default", nil)}
	case KindBool:
		if _, ok := f.Default.(bool); !ok {
			return Issues{issueAt(path, CodeInvalidDefault, fmt.Sprintf("bool default must be true or false, got %v", f.Default), map[string]any{"got": f.Default})}
		}
	case KindUnsigned, KindSigned:
		n, ok := asInt64(f.Default)
		if !ok || (n != 0 && n != 1 && n != -1) {
			return Issues{issueAt(path, CodeInvalidDefault, fmt.Sprintf("integer defaults are limited to 0, 1 and -1, got %v", f.Default), map[string]any{"got": f.Default})}
		}
	}
	return nil
}

// validateValidSpec checks the optional valid-value constraint: scalar kinds
// only, non-empty, and every member representable by the field.
func validateValidSpec(path string, kind Kind, f Field) Issues {
	if f.Valid == nil {
		return nil
	}
	if !kind.IsScalar() {
		return Issues{issueAt(path, CodeInvalidValid, fmt.Sprintf("valid constraints are not allowed on %s fields", kind), nil)}
	}
	if f.Valid.empty() {
		return Issues{issueAt(path, CodeInvalidValid, "valid constraint must list values or ranges", nil)}
	}
	if f.Width <= 0 {
		// Width already failed validation; bounds are meaningless.
		return nil
	}
	var iss Issues
	lo, hi := scalarBounds(kind, f.Width)
	for _, v := range f.Valid.Values {
		if v < lo || v > hi {
			iss = AppendIssues(iss, issueAt(path, CodeInvalidValid, fmt.Sprintf("valid value %d out of field range", v), map[string]any{"min": lo, "max": hi, "got": v}))
		}
	}
	for _, r := range f.Valid.Ranges {
		if r.Min >= r.Max {
			iss = AppendIssues(iss, issueAt(path, CodeInvalidValid, fmt.Sprintf("valid range [%d,%d) is empty", r.Min, r.Max), nil))
			continue
		}
		if r.Min < lo || r.Max-1 > hi {
			iss = AppendIssues(iss, issueAt(path, CodeInvalidValid, fmt.Sprintf("valid range [%d,%d) out of field range", r.Min, r.Max), map[string]any{"min": lo, "max": hi}))
		}
	}
	return iss
}

// scalarBounds returns the inclusive decoded range of a scalar field.
func scalarBounds(kind Kind, width int) (lo, hi int64) {
	switch kind {
	case KindBool:
		return 0, 1
	case KindSigned:
		return -(int64(1) << (width - 1)), int64(1)<<(width-1) - 1
	default: // KindUnsigned
		if width >= 63 {
			return 0, 1<<63 - 1
		}
		return 0, int64(1)<<width - 1
	}
}
