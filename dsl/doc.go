// Package dsl provides a fluent builder for layout descriptions so callers
// do not have to hand-write Config maps:
//
//	layout := dsl.New().
//		Bool("Enable", 7).Default(true).
//		Uint("Mode", 4, 3).
//		Reserved("Pad", 2, 2).
//		Int("Trim", 0, 2).
//		Title("Control register").
//		MustBuild()
package dsl
