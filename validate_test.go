package bitlayout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	bitlayout "github.com/reoring/bitlayout"
)

func compileOne(t *testing.T, name string, f bitlayout.Field) error {
	t.Helper()
	_, err := bitlayout.Compile(bitlayout.Config{name: f})
	return err
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	iss, ok := bitlayout.AsIssues(err)
	require.True(t, ok)
	for _, it := range iss {
		if it.Code == code {
			return
		}
	}
	t.Fatalf("expected issue code %q, got %v", code, err)
}

func TestValidate_FieldName(t *testing.T) {
	err := compileOne(t, "9lives", bitlayout.Field{Start: 0, Width: 1, Type: "bool"})
	requireCode(t, err, bitlayout.CodeInvalidName)

	err = compileOne(t, "has space", bitlayout.Field{Start: 0, Width: 1, Type: "bool"})
	requireCode(t, err, bitlayout.CodeInvalidName)

	require.NoError(t, compileOne(t, "_ok_2", bitlayout.Field{Start: 0, Width: 1, Type: "bool"}))
}

func TestValidate_StartAndWidth(t *testing.T) {
	err := compileOne(t, "F", bitlayout.Field{Start: -1, Width: 1, Type: "bool"})
	requireCode(t, err, bitlayout.CodeInvalidStart)

	err = compileOne(t, "F", bitlayout.Field{Start: 0, Width: 0, Type: "unsigned"})
	requireCode(t, err, bitlayout.CodeInvalidWidth)
}

func TestValidate_Kind(t *testing.T) {
	err := compileOne(t, "F", bitlayout.Field{Start: 0, Width: 1, Type: "float"})
	requireCode(t, err, bitlayout.CodeInvalidKind)

	// Abbreviated kind names are not accepted.
	err = compileOne(t, "F", bitlayout.Field{Start: 0, Width: 2, Type: "uint"})
	requireCode(t, err, bitlayout.CodeInvalidKind)
}

func TestValidate_BoolWidth(t *testing.T) {
	err := compileOne(t, "F", bitlayout.Field{Start: 0, Width: 2, Type: "bool"})
	requireCode(t, err, bitlayout.CodeInvalidWidth)
}

func TestValidate_Defaults(t *testing.T) {
	err := compileOne(t, "F", bitlayout.Field{Start: 0, Width: 2, Type: "reserved", Default: 1})
	requireCode(t, err, bitlayout.CodeDefaultForbidden)

	err = compileOne(t, "F", bitlayout.Field{Start: 0, Width: 1, Type: "bool", Default: 1})
	requireCode(t, err, bitlayout.CodeInvalidDefault)

	// Integer defaults express sentinels, not arbitrary constants.
	err = compileOne(t, "F", bitlayout.Field{Start: 0, Width: 4, Type: "unsigned", Default: 5})
	requireCode(t, err, bitlayout.CodeInvalidDefault)

	err = compileOne(t, "F", bitlayout.Field{Start: 0, Width: 4, Type: "signed", Default: -2})
	requireCode(t, err, bitlayout.CodeInvalidDefault)

	require.NoError(t, compileOne(t, "F", bitlayout.Field{Start: 0, Width: 4, Type: "signed", Default: -1}))
	require.NoError(t, compileOne(t, "F", bitlayout.Field{Start: 0, Width: 4, Type: "unsigned", Default: 1}))
	require.NoError(t, compileOne(t, "F", bitlayout.Field{Start: 0, Width: 1, Type: "bool", Default: true}))
}

func TestValidate_NestedRequirements(t *testing.T) {
	err := compileOne(t, "F", bitlayout.Field{Start: 0, Width: 4, Type: "nested", Selector: "S"})
	requireCode(t, err, bitlayout.CodeMissingVariants)

	err = compileOne(t, "F", bitlayout.Field{
		Start: 0, Width: 4, Type: "nested",
		Subtype: []bitlayout.Config{{"N": {Start: 0, Width: 1, Type: "bool"}}},
	})
	requireCode(t, err, bitlayout.CodeMissingSelector)

	err = compileOne(t, "F", bitlayout.Field{Start: 0, Width: 4, Type: "nested", Selector: "S",
		Subtype: []bitlayout.Config{{"N": {Start: 0, Width: 1, Type: "bool"}}},
		Default: 1,
	})
	requireCode(t, err, bitlayout.CodeDefaultForbidden)
}

func TestValidate_ScalarOnlyKeys(t *testing.T) {
	err := compileOne(t, "F", bitlayout.Field{Start: 0, Width: 2, Type: "unsigned", Selector: "S"})
	requireCode(t, err, bitlayout.CodeInvalidKind)

	err = compileOne(t, "F", bitlayout.Field{
		Start: 0, Width: 2, Type: "unsigned",
		Subtype: []bitlayout.Config{{}},
	})
	requireCode(t, err, bitlayout.CodeInvalidKind)
}

func TestValidate_ValidConstraint(t *testing.T) {
	err := compileOne(t, "F", bitlayout.Field{
		Start: 0, Width: 2, Type: "reserved",
		Valid: &bitlayout.Valid{Values: []int64{1}},
	})
	requireCode(t, err, bitlayout.CodeInvalidValid)

	err = compileOne(t, "F", bitlayout.Field{
		Start: 0, Width: 2, Type: "unsigned",
		Valid: &bitlayout.Valid{},
	})
	requireCode(t, err, bitlayout.CodeInvalidValid)

	err = compileOne(t, "F", bitlayout.Field{
		Start: 0, Width: 2, Type: "unsigned",
		Valid: &bitlayout.Valid{Values: []int64{4}},
	})
	requireCode(t, err, bitlayout.CodeInvalidValid)

	err = compileOne(t, "F", bitlayout.Field{
		Start: 0, Width: 2, Type: "unsigned",
		Valid: &bitlayout.Valid{Ranges: []bitlayout.ValidRange{{Min: 2, Max: 2}}},
	})
	requireCode(t, err, bitlayout.CodeInvalidValid)

	require.NoError(t, compileOne(t, "F", bitlayout.Field{
		Start: 0, Width: 2, Type: "unsigned",
		Valid: &bitlayout.Valid{Values: []int64{0, 3}, Ranges: []bitlayout.ValidRange{{Min: 1, Max: 3}}},
	}))
}
