package value

// RNG wraps a 64-bit Mersenne Twister (MT19937-64), exposing next_int,
// next_float and next_bool as bound native methods via Period (§6.4).
// next_float divides an integer draw by the generator's maximum, matching
// original_source's libraryRandom.c.
type RNG struct {
	Default
	mt    [312]uint64
	index int
}

var _ Value = (*RNG)(nil)

const (
	mtN          = 312
	mtM          = 156
	mtMatrixA    = 0xB5026F5AA96619E9
	mtUpperMask  = 0xFFFFFFFF80000000
	mtLowerMask  = 0x7FFFFFFF
)

// NewRNG seeds a fresh 64-bit Mersenne Twister. It is not registered with
// ctx: the Random library's `global` generator lives for the process,
// while `default` and seeded(n) register their results as temporaries
// themselves (see library/random.go).
func NewRNG(seed uint64) *RNG {
	r := &RNG{}
	r.seedMT(seed)
	return r
}

func (r *RNG) seedMT(seed uint64) {
	r.mt[0] = seed
	for i := 1; i < mtN; i++ {
		r.mt[i] = 6364136223846793005*(r.mt[i-1]^(r.mt[i-1]>>62)) + uint64(i)
	}
	r.index = mtN
}

// NextUint64 advances the generator and returns the next 64-bit draw.
func (r *RNG) NextUint64() uint64 {
	if r.index >= mtN {
		r.generate()
	}
	y := r.mt[r.index]
	r.index++

	y ^= (y >> 29) & 0x5555555555555555
	y ^= (y << 17) & 0x71D67FFFEDA60000
	y ^= (y << 37) & 0xFFF7EEE000000000
	y ^= y >> 43
	return y
}

func (r *RNG) generate() {
	for i := 0; i < mtN; i++ {
		x := (r.mt[i] & mtUpperMask) | (r.mt[(i+1)%mtN] & mtLowerMask)
		xA := x >> 1
		if x&1 != 0 {
			xA ^= mtMatrixA
		}
		r.mt[i] = r.mt[(i+mtM)%mtN] ^ xA
	}
	r.index = 0
}

func (r *RNG) Type() Type { return RNGType }

func (r *RNG) ToString(*Context) string { return "rng" }

func (r *RNG) Print(ctx *Context) Value { return GenericPrint(r, ctx) }

func (r *RNG) DeepCopy(*Context) Value { return r }

func (r *RNG) Period(name string, ctx *Context) Value {
	switch name {
	case "next_int":
		return NewInteger(ctx, int64(r.NextUint64()))
	case "next_float":
		return NewFloat(ctx, float64(r.NextUint64())/float64(^uint64(0)))
	case "next_bool":
		return NewBoolean(r.NextUint64()&1 == 1)
	default:
		return ctx.newError("RNG has no attribute named " + name)
	}
}
