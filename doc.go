// Package bitlayout compiles nested bit-field layout descriptions into
// immutable Layouts and interprets integer-backed Instances against them:
//
//   - A Config (field name -> descriptor) declares bool, unsigned, signed,
//     reserved and nested fields over non-overlapping bit ranges
//   - Compile validates the description and precomputes masks, shifts and the
//     all-defaults value; a Layout is shared read-only by its Instances
//   - An Instance reads, writes and serializes fields by name, resolving
//     selector-driven nested variants from live bits on every access
//   - A stable error model via Issues (path, code, message)
//
// Design policy:
//   - Keep only public APIs in the root package.
//   - Place the builder DSL under dsl/, the documentation renderer under
//     markdown/, and the CLI under cmd/bitlayout.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	layout, err := bitlayout.Compile(cfg)
//	in := layout.New()
//	err = in.Set("Mode", true)
//	v, err := in.Get("SubValue")
//	b := in.ToBytes()
package bitlayout
