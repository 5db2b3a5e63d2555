package value

import "fmt"

// Error is Tang's runtime error value (§3.1, §7 "Error Handling Design").
// Every error carries a Kind (a stable identifier a script can test
// against, e.g. "divide_by_zero") and a human-readable Message. A handful
// of well-known kinds are process-wide singletons that are never destroyed
// or deep-copied, matching Null/Boolean's singleton treatment.
type Error struct {
	Default
	Kind    string
	Message string
}

var _ Value = (*Error)(nil)

func (e *Error) Type() Type { return ErrorType }

func (e *Error) ToString(*Context) string {
	return fmt.Sprintf("error(%s): %s", e.Kind, e.Message)
}

func (e *Error) Print(ctx *Context) Value { return GenericPrint(e, ctx) }

func (e *Error) DeepCopy(ctx *Context) Value {
	if e.Flags().IsSingleton {
		return e
	}
	return ctx.Register(&Error{Default: Default{flags: Flags{IsError: true, IsTemporary: true}}, Kind: e.Kind, Message: e.Message})
}

// Equal compares errors by kind, matching the original's "errors compare
// equal when their kind matches" rule — two distinctly-worded divide by
// zero errors are still the same failure.
func (e *Error) Equal(other Value, _ bool, ctx *Context) Value {
	o, ok := other.(*Error)
	if !ok {
		return NewBoolean(false)
	}
	return NewBoolean(e.Kind == o.Kind)
}

func (e *Error) NotEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(e.Equal(other, selfIsLHS, ctx))
}

// newSingletonError builds a well-known Error singleton: IsSingleton and
// IsError are set, IsTemporary is not (singletons are never adopted or
// deep-copied away, §3.1).
func newSingletonError(kind, message string) *Error {
	return &Error{
		Default: Default{flags: Flags{IsError: true, IsSingleton: true}},
		Kind:    kind,
		Message: message,
	}
}

// Well-known error singletons shared across every Context, grounded in
// original_source's error kind enum (divide/modulo by zero, iterator
// exhaustion, and redeclaration/undefined-name kinds, §4.4/§6.2). The
// analysis pass does not raise the redeclaration or undefined-name
// singletons; it reports those cases as Go errors.
var (
	ErrDivideByZero              = newSingletonError("divide_by_zero", "division by zero")
	ErrModuloByZero              = newSingletonError("modulo_by_zero", "modulo by zero")
	ErrIteratorEnd               = newSingletonError("iterator_end", "iterator exhausted")
	ErrFunctionRedeclared        = newSingletonError("function_redeclared", "function already declared")
	ErrIdentifierRedeclared      = newSingletonError("identifier_redeclared", "identifier already declared in this scope")
	ErrGlobalIdentifierRedeclared = newSingletonError("global_identifier_redeclared", "identifier already declared as a global")
	ErrUndefinedIdentifier       = newSingletonError("undefined_identifier", "identifier is not defined")
)
