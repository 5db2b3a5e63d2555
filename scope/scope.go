// Package scope implements Tang's Variable Scope resolver (§3.4): nested
// lexical scopes tracking library declarations, globals, locals and
// function declarations, assigning stack positions and mangled names.
//
// The shape follows the teacher's compiler.SymbolTable (store map +
// Outer back-reference), generalized from a flat global/local/builtin/free
// split to Tang's four hash-keyed maps and its resolution order: function
// declaration in the chain, then library name in root, then `global` in
// root, then local in the nearest enclosing scope.
package scope

import "hash/fnv"

// Kind identifies how an identifier resolved.
type Kind int

//nolint:revive
const (
	None Kind = iota
	Local
	Global
	Function
	Library
)

// Binding records where and how an identifier resolved.
type Binding struct {
	Kind Kind
	// Offset is the stack offset (from the frame base) for Local/Global;
	// unused for Function/Library.
	Offset int
	// MangledName is set for Function bindings: parent-path + "/" + name.
	MangledName string
}

// Hash returns the FNV-1a hash of name, the key used throughout a Scope's
// maps (§3.4: "four maps keyed by identifier hash").
func Hash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

// Scope is one lexical scope: a function body, the root, or a nested
// block. Only the root scope populates libraryDeclarations and
// functionScopes (§3.4).
type Scope struct {
	Name   string // dot-joined path from root
	Hash   uint64
	Parent *Scope

	// Node is the AST node that introduced this scope (a Function node,
	// or nil for the root). Declared as interface{} to avoid an import
	// cycle with package ast, which itself needs to hold a *Scope.
	Node interface{}

	libraryDeclarations map[uint64]bool
	identifiedVariables map[uint64]Binding
	variablePositions   map[uint64]int
	functionScopes      map[uint64]*Scope

	// allocatedMangledNames owns every mangled name string built while
	// compiling this scope's descendants, mirroring §3.3's invariant that
	// the mangled-name pointer is owned by the scope, not the identifier
	// node. Go's GC makes the ownership moot; the slice is kept as a
	// record of every mangled name declared under this root, and nothing
	// else reads it.
	allocatedMangledNames []string

	nextLocalOffset int
}

// NewRoot creates the top-level scope for a Program.
func NewRoot() *Scope {
	return newScope("", nil, nil)
}

// NewChild creates a nested scope (a function body or a block) whose
// parent is s. node is the AST node that introduced it (DeclareFunction
// passes nil). The child numbers its own local offsets from 0.
func (s *Scope) NewChild(name string, node interface{}) *Scope {
	full := name
	if s.Name != "" {
		full = s.Name + "/" + name
	}
	return newScope(full, s, node)
}

func newScope(name string, parent *Scope, node interface{}) *Scope {
	sc := &Scope{
		Name:                name,
		Hash:                Hash(name),
		Parent:              parent,
		Node:                node,
		identifiedVariables: make(map[uint64]Binding),
		variablePositions:   make(map[uint64]int),
	}
	if parent == nil {
		sc.libraryDeclarations = make(map[uint64]bool)
		sc.functionScopes = make(map[uint64]*Scope)
	}
	return sc
}

// Root walks up the parent chain and returns the top-level scope.
func (s *Scope) Root() *Scope {
	r := s
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// DeclareLibrary records a `use` binding in the root scope. It must only
// be called on the root scope; redeclaration is reported by the caller
// (analyze), which checks IsLibraryDeclared first.
func (s *Scope) DeclareLibrary(name string) {
	s.Root().libraryDeclarations[Hash(name)] = true
}

// IsLibraryDeclared reports whether name was bound by a `use` statement
// anywhere in this program.
func (s *Scope) IsLibraryDeclared(name string) bool {
	return s.Root().libraryDeclarations[Hash(name)]
}

// DeclareGlobal allocates a fresh global slot for name in the root scope
// and returns its offset.
func (s *Scope) DeclareGlobal(name string) int {
	root := s.Root()
	offset := root.nextLocalOffset
	root.nextLocalOffset++
	h := Hash(name)
	root.variablePositions[h] = offset
	root.identifiedVariables[h] = Binding{Kind: Global, Offset: offset}
	return offset
}

// DeclareLocal allocates the next local slot for name in s and returns its
// offset.
func (s *Scope) DeclareLocal(name string) int {
	offset := s.nextLocalOffset
	s.nextLocalOffset++
	h := Hash(name)
	s.variablePositions[h] = offset
	s.identifiedVariables[h] = Binding{Kind: Local, Offset: offset}
	return offset
}

// DeclareFunction registers a mangled function name in the root scope's
// functionScopes table and returns the new child scope for its body.
// Mangled name is parent-path + "/" + name (§3.4 glossary).
func (s *Scope) DeclareFunction(name string) (*Scope, string) {
	mangled := name
	if s.Name != "" {
		mangled = s.Name + "/" + name
	}
	root := s.Root()
	root.allocatedMangledNames = append(root.allocatedMangledNames, mangled)
	child := s.NewChild(name, nil)
	root.functionScopes[Hash(mangled)] = child
	h := Hash(name)
	s.identifiedVariables[h] = Binding{Kind: Function, MangledName: mangled}
	return child, mangled
}

// HasFunction reports whether name is already declared as a function
// in s itself; ancestor scopes are not searched (used to detect
// redeclaration before calling DeclareFunction).
func (s *Scope) HasFunction(name string) bool {
	if b, ok := s.identifiedVariables[Hash(name)]; ok && b.Kind == Function {
		return true
	}
	return false
}

// HasLocal reports whether name is already declared as a local in s
// specifically (not an ancestor) — used to detect identifier redeclaration
// within the same scope.
func (s *Scope) HasLocal(name string) bool {
	_, ok := s.variablePositions[Hash(name)]
	return ok
}

// Resolve looks up name using §3.4's resolution order: function
// declaration in the chain, library name in root, global in root, local in
// the nearest enclosing scope. It records the binding in the resolving
// scope's identifiedVariables on first success, giving O(1) subsequent
// lookups from that same scope.
func (s *Scope) Resolve(name string) (Binding, bool) {
	h := Hash(name)

	for sc := s; sc != nil; sc = sc.Parent {
		if b, ok := sc.identifiedVariables[h]; ok && b.Kind == Function {
			return b, true
		}
	}

	root := s.Root()
	if root.libraryDeclarations[h] {
		b := Binding{Kind: Library}
		s.identifiedVariables[h] = b
		return b, true
	}
	if b, ok := root.identifiedVariables[h]; ok && b.Kind == Global {
		s.identifiedVariables[h] = b
		return b, true
	}

	for sc := s; sc != nil; sc = sc.Parent {
		if b, ok := sc.variablePositions[h]; ok {
			binding := Binding{Kind: Local, Offset: b}
			s.identifiedVariables[h] = binding
			return binding, true
		}
		if sc.Parent == nil {
			break
		}
	}
	return Binding{}, false
}
