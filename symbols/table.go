package symbols

// Scope is one level of the lexical scope stack. Within a scope names are
// unique; shadowing a name from an enclosing scope is permitted.
type Scope struct {
	symbols map[string]Symbol
	order   []string
}

func newScope() *Scope {
	return &Scope{symbols: make(map[string]Symbol)}
}

// UnusedLets returns the `let` locals of this scope that were never read,
// in declaration order.
func (s *Scope) UnusedLets() []*VariableSymbol {
	var out []*VariableSymbol
	for _, name := range s.order {
		v, ok := s.symbols[name].(*VariableSymbol)
		if ok && v.Decl == DeclLocal && !v.Const && !v.Used() {
			out = append(out, v)
		}
	}
	return out
}

// Table is a stack of scopes. The bottom scope is the program scope, the
// only scope that may hold struct and mapping symbols.
type Table struct {
	scopes []*Scope
}

// NewTable creates a table with the program scope already open.
func NewTable() *Table {
	return &Table{scopes: []*Scope{newScope()}}
}

// EnterScope opens a child scope and returns the function that closes it.
// Callers defer the returned function so the scope is popped on every exit
// path, including error recovery.
func (t *Table) EnterScope() func() *Scope {
	t.scopes = append(t.scopes, newScope())
	return t.exitScope
}

func (t *Table) exitScope() *Scope {
	if len(t.scopes) == 1 {
		return nil // never pop the program scope
	}
	top := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	return top
}

// Depth returns the number of open scopes.
func (t *Table) Depth() int {
	return len(t.scopes)
}

// Declare binds a symbol in the innermost scope. It fails with a
// *DuplicateError when the name is already bound in that scope.
func (t *Table) Declare(name string, sym Symbol) error {
	scope := t.scopes[len(t.scopes)-1]
	if prev, ok := scope.symbols[name]; ok {
		return &DuplicateError{
			Name: name,
			Kind: sym.SymbolKind(),
			Span: sym.SymbolSpan(),
			Prev: prev.SymbolSpan(),
		}
	}
	scope.symbols[name] = sym
	scope.order = append(scope.order, name)
	return nil
}

// Lookup resolves a name, walking from the innermost scope outward.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupVariable resolves a name to a variable symbol.
func (t *Table) LookupVariable(name string) (*VariableSymbol, bool) {
	sym, ok := t.Lookup(name)
	if !ok {
		return nil, false
	}
	v, ok := sym.(*VariableSymbol)
	return v, ok
}

// LookupFunction resolves a name to a function symbol in the program scope.
func (t *Table) LookupFunction(name string) (*FunctionSymbol, bool) {
	sym, ok := t.scopes[0].symbols[name]
	if !ok {
		return nil, false
	}
	f, ok := sym.(*FunctionSymbol)
	return f, ok
}

// LookupStruct resolves a name to a struct symbol in the program scope.
func (t *Table) LookupStruct(name string) (*StructSymbol, bool) {
	sym, ok := t.scopes[0].symbols[name]
	if !ok {
		return nil, false
	}
	s, ok := sym.(*StructSymbol)
	return s, ok
}

// finalizeKey namespaces finalize functions in the program scope so a
// transition and its finalize counterpart can share a source name.
func finalizeKey(name string) string {
	return "finalize:" + name
}

// DeclareFinalize binds a finalize function symbol in the program scope.
func (t *Table) DeclareFinalize(name string, sym *FunctionSymbol) error {
	scope := t.scopes[0]
	key := finalizeKey(name)
	if prev, ok := scope.symbols[key]; ok {
		return &DuplicateError{
			Name: name,
			Kind: KindFunction,
			Span: sym.SymbolSpan(),
			Prev: prev.SymbolSpan(),
		}
	}
	scope.symbols[key] = sym
	scope.order = append(scope.order, key)
	return nil
}

// LookupFinalize resolves the finalize function paired with the given name.
func (t *Table) LookupFinalize(name string) (*FunctionSymbol, bool) {
	sym, ok := t.scopes[0].symbols[finalizeKey(name)]
	if !ok {
		return nil, false
	}
	f, ok := sym.(*FunctionSymbol)
	return f, ok
}

// LookupMapping resolves a name to a mapping symbol in the program scope.
func (t *Table) LookupMapping(name string) (*MappingSymbol, bool) {
	sym, ok := t.scopes[0].symbols[name]
	if !ok {
		return nil, false
	}
	m, ok := sym.(*MappingSymbol)
	return m, ok
}
