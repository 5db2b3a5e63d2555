package library

import (
	"time"

	"github.com/tang-lang/tang/value"
)

// randomGlobal is the Random library's `global` RNG: a single Mersenne
// Twister shared by every `random.global.next_int` access across the
// process's lifetime, seeded once at package init — distinct from
// `default`, which mints a fresh clock-seeded generator on every access
// (libraryRandom.c / computedValueRNG.h, SPEC_FULL.md Supplemented
// features).
var randomGlobal = value.NewRNG(uint64(time.Now().UnixNano()))

// Random is the `use random;` library.
var Random = value.NewLibrary("random", map[string]func(ctx *value.Context) value.Value{
	"global":  func(*value.Context) value.Value { return randomGlobal },
	"default": randomDefault,
	"seeded":  func(*value.Context) value.Value { return seededFactory },
})

// randomDefault mints a fresh, clock-seeded RNG on every `random.default`
// access (§3.3: "default (an RNG seeded from the clock)"), registered as a
// temporary with the accessing run's context so it participates in that
// run's GC list like any other freshly computed value.
func randomDefault(ctx *value.Context) value.Value {
	rng := value.NewRNG(uint64(time.Now().UnixNano()))
	rng.Flags().IsTemporary = true
	return ctx.Register(rng)
}

// seededFactory is `random.seeded`, a process-wide NativeFunction a script
// calls as `random.seeded(n)` (§3.3: "seeded(n): factory").
var seededFactory = value.NewStaticNativeFunction("seeded", nil, func(ctx *value.Context, _ value.Value, args []value.Value) value.Value {
	if len(args) != 1 {
		return ctx.NewError("seeded expects exactly one argument")
	}
	n, ok := args[0].(*value.Integer)
	if !ok {
		return ctx.NewError("seeded expects an integer seed")
	}
	rng := value.NewRNG(uint64(n.Val))
	rng.Flags().IsTemporary = true
	return ctx.Register(rng)
})
