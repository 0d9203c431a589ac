// Package symtab implements the two-level symbol table: one global scope plus
// one inner scope per function. Localized identifiers flatten the two levels
// into a single namespace for the emitted intermediary code.
package symtab

import (
	"fmt"
	"strings"
)

// GlobalScope is the distinguished name of the top-level scope.
const GlobalScope = "_global_"

// Entry is a resolvable name: either a Symbol or a function Parameter.
type Entry interface {
	Name() string
	Type() string
}

// Parameter is one ordered function parameter.
type Parameter struct {
	Identifier  string
	DefinedType string
}

// Name returns the parameter identifier.
func (p *Parameter) Name() string { return p.Identifier }

// Type returns the declared parameter type.
func (p *Parameter) Type() string { return p.DefinedType }

func (p *Parameter) String() string {
	return fmt.Sprintf("%s %s", p.DefinedType, p.Identifier)
}

// Params is an ordered parameter set. Declaration order is significant:
// call sites check arguments against parameters by index.
type Params struct {
	order  []string
	byName map[string]*Parameter
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{byName: make(map[string]*Parameter)}
}

// Add appends a parameter, rejecting duplicates.
func (ps *Params) Add(identifier, definedType string) bool {
	if ps.Exists(identifier) {
		return false
	}
	ps.byName[identifier] = &Parameter{Identifier: identifier, DefinedType: definedType}
	ps.order = append(ps.order, identifier)
	return true
}

// Exists reports whether the parameter is declared.
func (ps *Params) Exists(identifier string) bool {
	_, ok := ps.byName[identifier]
	return ok
}

// Get returns the parameter by name, or nil.
func (ps *Params) Get(identifier string) *Parameter {
	return ps.byName[identifier]
}

// ByIndex returns the i-th declared parameter, or nil when out of range.
func (ps *Params) ByIndex(i int) *Parameter {
	if i < 0 || i >= len(ps.order) {
		return nil
	}
	return ps.byName[ps.order[i]]
}

// Len returns the parameter count.
func (ps *Params) Len() int { return len(ps.order) }

func (ps *Params) String() string {
	parts := make([]string, 0, len(ps.order))
	for _, name := range ps.order {
		parts = append(parts, ps.byName[name].String())
	}
	return strings.Join(parts, ", ")
}

// Symbol is a declared name: a variable or a function. Function symbols own
// their ordered parameters and a nested table of local variables.
type Symbol struct {
	Identifier  string
	DefinedType string
	IsFunction  bool
	Parameters  *Params
	Locals      *Table
}

// Name returns the symbol identifier.
func (s *Symbol) Name() string { return s.Identifier }

// Type returns the declared type.
func (s *Symbol) Type() string { return s.DefinedType }

// AddParameter appends to the function's ordered parameter list.
func (s *Symbol) AddParameter(identifier, definedType string) bool {
	return s.Parameters.Add(identifier, definedType)
}

// ParametersLen returns the declared parameter count.
func (s *Symbol) ParametersLen() int { return s.Parameters.Len() }

func (s *Symbol) String() string {
	if s.IsFunction {
		locals := make([]string, 0, len(s.Locals.order))
		for _, name := range s.Locals.order {
			sym := s.Locals.elements[name]
			locals = append(locals, fmt.Sprintf("%s %s", sym.DefinedType, sym.Identifier))
		}
		return fmt.Sprintf("%s %s (%s) {%s}",
			s.DefinedType, s.Identifier, s.Parameters, strings.Join(locals, ", "))
	}
	return fmt.Sprintf("%s %s", s.DefinedType, s.Identifier)
}

// Table maps identifiers to symbols, preserving declaration order so that
// rendering and repeated compilations are stable.
type Table struct {
	elements map[string]*Symbol
	order    []string
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{elements: make(map[string]*Symbol)}
}

// Scope returns the function symbol owning the named scope, or nil.
func (t *Table) Scope(scope string) *Symbol {
	return t.elements[scope]
}

// Exists reports whether the identifier resolves in the given scope.
// For a non-global scope the function's locals and parameters are checked;
// the global layer is consulted when tryGlobal is set (or the scope is
// global to begin with).
func (t *Table) Exists(identifier, scope string, tryGlobal bool) bool {
	if scope != GlobalScope {
		owner := t.elements[scope]
		if owner != nil {
			if _, ok := owner.Locals.elements[identifier]; ok {
				return true
			}
			if owner.Parameters.Exists(identifier) {
				return true
			}
		}
		if !tryGlobal {
			return false
		}
	}
	_, ok := t.elements[identifier]
	return ok
}

// Add declares an identifier in the given scope. It fails only when the name
// already exists in that same scope; shadowing a global from a function scope
// is allowed.
func (t *Table) Add(identifier, definedType, scope string, isFunction bool) bool {
	if t.Exists(identifier, scope, false) {
		return false
	}
	sym := &Symbol{
		Identifier:  identifier,
		DefinedType: definedType,
		IsFunction:  isFunction,
		Parameters:  NewParams(),
		Locals:      New(),
	}
	if scope != GlobalScope {
		owner := t.elements[scope]
		owner.Locals.elements[identifier] = sym
		owner.Locals.order = append(owner.Locals.order, identifier)
		return true
	}
	t.elements[identifier] = sym
	t.order = append(t.order, identifier)
	return true
}

// Get resolves the identifier: locals of the scope, then its parameters,
// then globals. Returns nil when nothing matches.
func (t *Table) Get(identifier, scope string) Entry {
	if scope != GlobalScope {
		owner := t.elements[scope]
		if owner != nil {
			if sym, ok := owner.Locals.elements[identifier]; ok {
				return sym
			}
			if p := owner.Parameters.Get(identifier); p != nil {
				return p
			}
		}
	}
	if sym, ok := t.elements[identifier]; ok {
		return sym
	}
	return nil
}

// LocalizedIdentifier returns the name to emit in intermediary code: locals
// and parameters of scope s become "<s>_<identifier>", globals stay bare.
// Returns the empty string when the identifier does not resolve.
func (t *Table) LocalizedIdentifier(identifier, scope string) string {
	if scope != GlobalScope {
		owner := t.elements[scope]
		if owner != nil {
			if _, ok := owner.Locals.elements[identifier]; ok {
				return fmt.Sprintf("%s_%s", scope, identifier)
			}
			if owner.Parameters.Exists(identifier) {
				return fmt.Sprintf("%s_%s", scope, identifier)
			}
		}
	}
	if _, ok := t.elements[identifier]; ok {
		return identifier
	}
	return ""
}

// Functions returns the global function symbols in declaration order.
func (t *Table) Functions() []*Symbol {
	var out []*Symbol
	for _, name := range t.order {
		if sym := t.elements[name]; sym.IsFunction {
			out = append(out, sym)
		}
	}
	return out
}

// Variables returns the global variable symbols in declaration order.
func (t *Table) Variables() []*Symbol {
	var out []*Symbol
	for _, name := range t.order {
		if sym := t.elements[name]; !sym.IsFunction {
			out = append(out, sym)
		}
	}
	return out
}
