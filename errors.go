package bitlayout

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Configuration errors (raised at compile time only).
	CodeInvalidName      = "invalid_name"
	CodeInvalidKind      = "invalid_kind"
	CodeInvalidStart     = "invalid_start"
	CodeInvalidWidth     = "invalid_width"
	CodeInvalidDefault   = "invalid_default"
	CodeDefaultForbidden = "default_forbidden"
	CodeMissingSelector  = "missing_selector"
	CodeMissingVariants  = "missing_variants"
	CodeSelectorKind     = "selector_kind"
	CodeOverlap          = "overlap"
	CodeWidthExceeded    = "width_exceeded"
	CodeEmptyLayout      = "empty_layout"
	CodeInvalidValid     = "invalid_valid"
	CodeParseError       = "parse_error"

	// Runtime errors (construction and field access).
	CodeOutOfRange    = "out_of_range"
	CodeVariantIndex  = "variant_index"
	CodeUnknownField  = "unknown_field"
	CodeReservedField = "reserved_field"
	CodeInvalidType   = "invalid_type"
)

// Issue represents a single validation or access error.
type Issue struct {
	Path    string // slash-separated field path (for example: /SubValue/PropA).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, offending values, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":0, "max":15, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. out_of_range at /SubValue/PropA
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// configurationCodes is the set of codes raised only while compiling a layout
// description.
var configurationCodes = map[string]struct{}{
	CodeInvalidName:      {},
	CodeInvalidKind:      {},
	CodeInvalidStart:     {},
	CodeInvalidWidth:     {},
	CodeInvalidDefault:   {},
	CodeDefaultForbidden: {},
	CodeMissingSelector:  {},
	CodeMissingVariants:  {},
	CodeSelectorKind:     {},
	CodeOverlap:          {},
	CodeWidthExceeded:    {},
	CodeEmptyLayout:      {},
	CodeInvalidValid:     {},
	CodeParseError:       {},
}

func hasCode(err error, codes ...string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		for _, c := range codes {
			if it.Code == c {
				return true
			}
		}
	}
	return false
}

// IsConfigurationError reports whether err carries a malformed-description
// issue (bad kind, bad width, forbidden default, missing selector/variants,
// overlap, excessive total width).
func IsConfigurationError(err error) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if _, found := configurationCodes[it.Code]; found {
			return true
		}
	}
	return false
}

// IsRangeError reports whether err carries a value outside the representable
// range for a field's kind/width, or an out-of-range initializing integer or
// byte string.
func IsRangeError(err error) bool { return hasCode(err, CodeOutOfRange) }

// IsIndexError reports whether err carries a selector value outside the
// bounds of a nested field's variant list.
func IsIndexError(err error) bool { return hasCode(err, CodeVariantIndex) }

// IsLookupError reports whether err carries an unknown field name.
func IsLookupError(err error) bool { return hasCode(err, CodeUnknownField) }

// IsImmutableFieldError reports whether err carries an attempted write to a
// reserved field.
func IsImmutableFieldError(err error) bool { return hasCode(err, CodeReservedField) }
