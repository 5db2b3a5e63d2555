package value

// Library is a named Value whose operation table points at the generic
// attribute-table lookup described in §6.4: period resolves a name against
// a table of native creator callbacks, matching original_source's
// GTA_Computed_Value_Library_Attribute_Pair (a name paired with a
// `make_*` callback, not a fixed value) — the indirection is what lets
// `random.default` mint a fresh clock-seeded RNG on every access while
// `random.global` and `math.pi` return the same singleton every time.
type Library struct {
	Default
	Name       string
	attributes map[string]func(ctx *Context) Value
}

var _ Value = (*Library)(nil)

// NewLibrary builds a Library singleton with the given attribute-creator
// table. Libraries are process-wide singletons (§5: "Math and Random
// library objects" are listed among the shared immutable singletons).
func NewLibrary(name string, attributes map[string]func(ctx *Context) Value) *Library {
	return &Library{Default: Default{flags: Flags{IsSingleton: true}}, Name: name, attributes: attributes}
}

func (l *Library) Type() Type { return LibraryType }

func (l *Library) ToString(*Context) string { return "library " + l.Name }

func (l *Library) Print(ctx *Context) Value { return GenericPrint(l, ctx) }

func (l *Library) DeepCopy(*Context) Value { return l }

func (l *Library) Period(name string, ctx *Context) Value {
	make, ok := l.attributes[name]
	if !ok {
		return ctx.newError("library " + l.Name + " has no attribute named " + name)
	}
	return make(ctx)
}
