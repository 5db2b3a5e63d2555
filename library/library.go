// Package library provides Tang's two standard libraries, Math and
// Random (§6.4, SPEC_FULL.md Supplemented features), matching
// original_source's library/libraryMath.c and library/libraryRandom.c.
package library

import "github.com/tang-lang/tang/value"

// Register binds every standard library into ctx.Globals under the name a
// `use` statement resolves (§3.5: "globals hash... populated by the host
// embedding (or library package) before execution begins"). A Program
// calls this once per fresh Context before Execute runs.
func Register(ctx *value.Context) {
	ctx.Globals["math"] = Math
	ctx.Globals["random"] = Random
}
