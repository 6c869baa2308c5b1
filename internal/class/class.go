// Package class holds the pure data structures for user-defined functions
// and classes (spec.md §4.6): parameter lists, method/field tables, and
// multiple-inheritance resolution. It deliberately carries no execution
// logic, so it depends only on scope and value and never on statement or
// evaluator, avoiding the import cycle that a literal port of
// EvalObjectBase would create (spec.md §9: "abstract EvalObjectBase...
// becomes a tagged variant; shared defaults become free functions taking
// the variant"). Orchestrating a call or instantiation against a live
// scope tree is internal/evaluator's job.
package class

import (
	"sync"

	"cantus/internal/scope"
	"cantus/internal/value"
)

// Param is one formal parameter of a user function: a name, an optional
// default expression (raw text, evaluated lazily by the caller), and
// whether it binds by reference (spec.md §4.6 "ref" parameters).
type Param struct {
	Name    string
	Default string
	HasDefault bool
	ByRef   bool
}

// UserFunction is a named, user-defined function: its formal parameters
// and its body as StatementEngine source text, plus the scope it closes
// over.
type UserFunction struct {
	Name        string
	Params      []Param
	Body        string
	DeclScope   string
	Modifiers   scope.Modifier
	// Method is true when this function was declared inside a class body
	// (spec.md §4.6: methods resolve through the class's inheritance
	// chain rather than the ordinary scope chain).
	Method bool
}

func (f *UserFunction) Arity() int { return len(f.Params) }

// RequiredArity returns the minimum number of arguments a call must
// supply (parameters with no default).
func (f *UserFunction) RequiredArity() int {
	n := 0
	for _, p := range f.Params {
		if !p.HasDefault {
			n++
		}
	}
	return n
}

// Field describes one declared field of a class: its name, whether it is
// static (shared across instances) or per-instance, and an optional
// initializer expression evaluated at instantiation time.
type Field struct {
	Name       string
	Static     bool
	Init       string
	HasInit    bool
	Modifiers  scope.Modifier
}

// UserClass is a user-defined class: its own fields/methods plus zero or
// more parent classes for multiple inheritance (spec.md §4.6: "fields and
// methods resolve left-to-right, depth-first, first-seen-wins across the
// parent list").
type UserClass struct {
	Name      string
	Parents   []*UserClass
	Fields    []Field
	Methods   map[string]*UserFunction
	DeclScope string
	Modifiers scope.Modifier

	// Constructor is the method named "constructor", if declared
	// (spec.md §4.6 "constructor lambda"). Run once per instantiation
	// after fields are populated with their defaults.
	Constructor *UserFunction

	// instances tracks every live instance this class (not a subclass)
	// created, weak back-references used for introspection only
	// (spec.md §3 ownership summary: "UserClass owns the set of live
	// instance identifiers it created").
	instMu    sync.Mutex
	instances map[string]bool

	// statics backs spec.md §3's "static class fields share the same
	// Reference" rule: the first instance to touch a static field
	// creates its Reference here; every later instance (of this class
	// or a descendant inheriting the field) shares it.
	staticMu sync.Mutex
	statics  map[string]*value.Reference
}

func NewUserClass(name, declScope string) *UserClass {
	return &UserClass{
		Name:      name,
		DeclScope: declScope,
		Methods:   make(map[string]*UserFunction),
		instances: make(map[string]bool),
		statics:   make(map[string]*value.Reference),
	}
}

// StaticRef returns the shared Reference backing a static field named
// name, running init (the field's declared initializer expression) the
// first time any instance touches it. The owning class is whichever
// ancestor's UserClass first declares the field (ResolveField/linearize
// order), so all descendants that inherit it share one cell.
func (c *UserClass) StaticRef(name string, init func() (value.Value, error)) (*value.Reference, error) {
	c.staticMu.Lock()
	defer c.staticMu.Unlock()
	if ref, ok := c.statics[name]; ok {
		return ref, nil
	}
	v, err := init()
	if err != nil {
		return nil, err
	}
	ref := value.NewReference(v)
	c.statics[name] = ref
	return ref, nil
}

// TrackInstance records a newly constructed instance's inner scope name
// (spec.md §3/§5: "append-only during instance construction, delete-on-
// dispose").
func (c *UserClass) TrackInstance(innerScope string) {
	c.instMu.Lock()
	defer c.instMu.Unlock()
	c.instances[innerScope] = true
}

// UntrackInstance removes innerScope from the live-instance set on
// disposal.
func (c *UserClass) UntrackInstance(innerScope string) {
	c.instMu.Lock()
	defer c.instMu.Unlock()
	delete(c.instances, innerScope)
}

// LiveInstances returns the inner-scope names of every live instance of
// this class.
func (c *UserClass) LiveInstances() []string {
	c.instMu.Lock()
	defer c.instMu.Unlock()
	out := make([]string, 0, len(c.instances))
	for name := range c.instances {
		out = append(out, name)
	}
	return out
}

// ClassName satisfies value.ClassRef.
func (c *UserClass) ClassName() string { return c.Name }

// IsStaticField satisfies value.ClassRef: it reports whether name
// resolves (through the inheritance chain) to a static field.
func (c *UserClass) IsStaticField(name string) bool {
	f, ok := c.ResolveField(name)
	return ok && f.Static
}

// MethodArgNames satisfies value.ClassRef.
func (c *UserClass) MethodArgNames(name string) ([]string, bool) {
	fn, _, ok := c.ResolveMethod(name)
	if !ok {
		return nil, false
	}
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	return names, true
}

// linearize returns c and its ancestor chain in depth-first,
// left-to-right order with duplicates removed by first occurrence
// (spec.md §4.6 multiple-inheritance resolution order).
func (c *UserClass) linearize() []*UserClass {
	var order []*UserClass
	seen := make(map[*UserClass]bool)
	var visit func(*UserClass)
	visit = func(cls *UserClass) {
		if cls == nil || seen[cls] {
			return
		}
		seen[cls] = true
		order = append(order, cls)
		for _, p := range cls.Parents {
			visit(p)
		}
	}
	visit(c)
	return order
}

// ResolveMethod finds name by walking the linearized parent chain,
// first-seen-wins.
func (c *UserClass) ResolveMethod(name string) (*UserFunction, *UserClass, bool) {
	for _, cls := range c.linearize() {
		if m, ok := cls.Methods[name]; ok {
			return m, cls, true
		}
	}
	return nil, nil, false
}

// ResolveField finds name's declaration by walking the linearized parent
// chain, first-seen-wins.
func (c *UserClass) ResolveField(name string) (Field, bool) {
	f, _, ok := c.ResolveFieldOwner(name)
	return f, ok
}

// ResolveFieldOwner is ResolveField plus the owning ancestor class, so
// callers needing a single shared static Reference can key it by the
// class that actually declares the field rather than the most-derived
// class an instance was built from.
func (c *UserClass) ResolveFieldOwner(name string) (Field, *UserClass, bool) {
	for _, cls := range c.linearize() {
		for _, f := range cls.Fields {
			if f.Name == name {
				return f, cls, true
			}
		}
	}
	return Field{}, nil, false
}

// AllFields returns every field visible on an instance of c, in
// linearization order, skipping names already claimed by a nearer
// ancestor (matching ResolveField's first-seen-wins rule).
func (c *UserClass) AllFields() []Field {
	var out []Field
	seen := make(map[string]bool)
	for _, cls := range c.linearize() {
		for _, f := range cls.Fields {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	return out
}

// IsA reports whether c equals or descends from named (spec.md §4.6
// "instanceof"-style checks used by pattern matching and the auto-
// generated instanceid method).
func (c *UserClass) IsA(name string) bool {
	for _, cls := range c.linearize() {
		if cls.Name == name {
			return true
		}
	}
	return false
}
