package value

import "fmt"

// ClassRef is the minimal contract ClassInstance needs from a UserClass
// without importing the class package (which itself imports value),
// avoiding an import cycle (spec.md §9: "abstract EvalObjectBase... becomes
// a tagged variant; shared defaults become free functions taking the
// variant").
type ClassRef interface {
	ClassName() string
	IsStaticField(name string) bool
	// MethodArgNames reports the formal parameter names of a declared
	// method, so index-based member access (`instance["method"]`) can
	// bind a callable Lambda without exprevaluator/value needing to
	// import the class package.
	MethodArgNames(name string) ([]string, bool)
}

// ClassInstance is a user-class object: a strong reference to its
// defining class, a per-instance inner scope name, and a field map
// (spec.md §3).
type ClassInstance struct {
	Class      ClassRef
	InnerScope string
	Fields     map[string]*Reference
	Disposed   bool
}

func NewClassInstance(class ClassRef, innerScope string) *ClassInstance {
	return &ClassInstance{
		Class:      class,
		InnerScope: innerScope,
		Fields:     make(map[string]*Reference),
	}
}

func (c *ClassInstance) Kind() Kind { return KindClassInstance }

// DeepCopy copies every non-static field's current value into a fresh
// Reference; static fields keep pointing at the same Reference, since
// spec.md §3 says static fields are intentionally shared across
// instances/copies.
func (c *ClassInstance) DeepCopy() Value {
	out := &ClassInstance{
		Class:      c.Class,
		InnerScope: c.InnerScope,
		Fields:     make(map[string]*Reference, len(c.Fields)),
		Disposed:   c.Disposed,
	}
	for name, ref := range c.Fields {
		if c.Class != nil && c.Class.IsStaticField(name) {
			out.Fields[name] = ref
			continue
		}
		out.Fields[name] = NewReference(ref.Resolve().DeepCopy())
	}
	return out
}

func (c *ClassInstance) Display() string {
	if c.Class == nil {
		return "<instance>"
	}
	return fmt.Sprintf("<%s instance>", c.Class.ClassName())
}

// GetField returns the Reference backing a field, if present and not
// disposed.
func (c *ClassInstance) GetField(name string) (*Reference, bool) {
	if c.Disposed {
		return nil, false
	}
	r, ok := c.Fields[name]
	return r, ok
}

// Dispose clears all field bindings and drops the class link (spec.md
// §3: disposal is a one-way operation; further use fails).
func (c *ClassInstance) Dispose() {
	c.Fields = nil
	c.Class = nil
	c.Disposed = true
}
