package library

import (
	"math"

	"github.com/tang-lang/tang/value"
)

// Math is the `use math;` library: a process-wide singleton exposing the
// constants libraryMath.c binds (§6.4, SPEC_FULL.md Supplemented features).
// Only `pi` is named by the spec; the attribute table is left open so a
// future constant slots in the same way.
var Math = value.NewLibrary("math", map[string]func(ctx *value.Context) value.Value{
	"pi": func(*value.Context) value.Value { return mathPi },
})

// mathPi is allocated once, outside any run's Context, since Math.pi is a
// process-wide singleton (§5) rather than a per-run temporary: library
// attribute values never get garbage-collected by a Context's GCList, and
// NewFloat always demands one, so this builds the Float by hand the same
// way value.Null bypasses a Context.
var mathPi = value.NewSingletonFloat(math.Pi)
