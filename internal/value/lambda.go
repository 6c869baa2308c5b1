package value

import "strings"

// Lambda is either a bound function pointer (Name + ArgNames referring to
// a user function already defined elsewhere) or a flat expression (args +
// body text), executable against a sub-evaluator (spec.md §3/§4.7).
type Lambda struct {
	// Bound is true when this lambda merely names an existing function.
	Bound    bool
	Name     string
	ArgNames []string
	Body     string

	// Receiver is set when this lambda is a class method bound off a
	// live instance (indexed off a ClassInstance by method name), so
	// invoking it runs Name against Receiver rather than a free
	// function of the same name.
	Receiver *ClassInstance
}

// NewFlatLambda parses a literal like `x, y => x + y` into its argument
// names and body text.
func NewFlatLambda(argList, body string) *Lambda {
	var names []string
	for _, a := range strings.Split(argList, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			names = append(names, a)
		}
	}
	return &Lambda{ArgNames: names, Body: strings.TrimSpace(body)}
}

func NewBoundLambda(name string, argNames []string) *Lambda {
	return &Lambda{Bound: true, Name: name, ArgNames: argNames}
}

func (l *Lambda) Kind() Kind { return KindLambda }

func (l *Lambda) DeepCopy() Value {
	cp := *l
	cp.ArgNames = append([]string(nil), l.ArgNames...)
	return &cp
}

// BoundMethod builds a lambda naming a class method, carrying the
// receiving instance it was looked up on (spec.md §4.6 method
// resolution: methods dispatch against the instance they were
// retrieved from).
func BoundMethod(recv *ClassInstance, name string, argNames []string) *Lambda {
	return &Lambda{Bound: true, Name: name, ArgNames: argNames, Receiver: recv}
}

func (l *Lambda) Display() string {
	if l.Bound {
		return "<lambda " + l.Name + ">"
	}
	return "`" + strings.Join(l.ArgNames, ",") + " => " + l.Body + "`"
}

func (l *Lambda) Arity() int { return len(l.ArgNames) }
