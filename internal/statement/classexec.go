package statement

import (
	"strings"

	"cantus/internal/cantuserr"
	"cantus/internal/class"
	"cantus/internal/decimal"
	"cantus/internal/scope"
	"cantus/internal/value"
)

// execClass registers a user class declared in script source (spec.md
// §4.6 "User class"): its field and method declarations, parent list
// for multiple inheritance, and constructor (the method literally
// named "constructor", run once per instantiation after fields are
// populated).
func execClass(e *Engine, n *Node) (Result, error) {
	name, parentNames, err := parseClassHeader(n.Header)
	if err != nil {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "%s", err)
	}
	cls := class.NewUserClass(name, e.Scope.Name)
	cls.Modifiers = n.Mods
	for _, pname := range parentNames {
		parent, ok := e.resolveClass(pname)
		if !ok {
			return Result{}, cantuserr.Evalf(lineOf(n), "unknown parent class %q", pname)
		}
		cls.Parents = append(cls.Parents, parent)
	}
	for _, member := range n.Body {
		if err := addClassMember(e, cls, member); err != nil {
			return Result{}, err
		}
	}
	e.DefineClass(cls)
	return voidResult(), nil
}

func addClassMember(e *Engine, cls *class.UserClass, member *Node) error {
	switch member.Keyword {
	case KwFunction:
		fnName, params, err := parseFuncSignature(member.Header)
		if err != nil {
			return cantuserr.Syntaxf(lineOf(member), "%s", err)
		}
		fn := &class.UserFunction{
			Name:      fnName,
			Params:    params,
			DeclScope: cls.DeclScope,
			Modifiers: member.Mods,
			Method:    true,
		}
		cls.Methods[fnName] = fn
		e.registerMethodBody(fn, member.Body)
		if fnName == "constructor" {
			cls.Constructor = fn
		}
		return nil
	case KwLet, KwGlobal:
		fieldName, initText, hasInit := strings.Cut(member.Header, "=")
		fieldName = strings.TrimSpace(fieldName)
		if fieldName == "" {
			return cantuserr.Syntaxf(lineOf(member), "malformed field declaration %q", member.Header)
		}
		cls.Fields = append(cls.Fields, class.Field{
			Name:      fieldName,
			Static:    member.Mods.Has(scope.ModStatic),
			Init:      strings.TrimSpace(initText),
			HasInit:   hasInit,
			Modifiers: member.Mods,
		})
		return nil
	default:
		return cantuserr.Syntaxf(lineOf(member), "unsupported class member %q", member.Keyword)
	}
}

// parseClassHeader splits a class declaration header into its name and
// parent list: `Shape` or `Circle(Shape, Drawable)`.
func parseClassHeader(header string) (string, []string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", nil, cantuserr.Syntaxf(0, "class declaration missing a name")
	}
	open := strings.IndexByte(header, '(')
	if open < 0 {
		return header, nil, nil
	}
	if !strings.HasSuffix(header, ")") {
		return "", nil, cantuserr.Syntaxf(0, "malformed parent list %q", header)
	}
	name := strings.TrimSpace(header[:open])
	if name == "" {
		return "", nil, cantuserr.Syntaxf(0, "class declaration missing a name")
	}
	parents := splitTopLevelComma(header[open+1:len(header)-1], nil)
	return name, parents, nil
}

// parseFuncSignature splits a function/method declaration header into
// its name and formal parameters: `add(a, b=1, ref c)`.
func parseFuncSignature(header string) (string, []class.Param, error) {
	header = strings.TrimSpace(header)
	open := strings.IndexByte(header, '(')
	if open < 0 || !strings.HasSuffix(header, ")") {
		return "", nil, cantuserr.Syntaxf(0, "malformed function signature %q", header)
	}
	name := strings.TrimSpace(header[:open])
	if name == "" {
		return "", nil, cantuserr.Syntaxf(0, "function declaration missing a name")
	}
	parts := splitTopLevelComma(header[open+1:len(header)-1], nil)
	params := make([]class.Param, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		byRef := false
		if rest, ok := strings.CutPrefix(p, "ref "); ok {
			byRef = true
			p = strings.TrimSpace(rest)
		}
		pname, defText, hasDefault := strings.Cut(p, "=")
		params = append(params, class.Param{
			Name:       strings.TrimSpace(pname),
			Default:    strings.TrimSpace(defText),
			HasDefault: hasDefault,
			ByRef:      byRef,
		})
	}
	return name, params, nil
}

// Instantiate builds a new ClassInstance: a unique inner scope, fields
// populated per spec.md §4.6 ("copies non-static fields, shares static
// fields, and installs an auto-generated instanceid method"), and the
// constructor (if declared) run against the populated instance.
func (e *Engine) Instantiate(cls *class.UserClass, args []value.Value) (value.Value, error) {
	inner := newInnerScopeName(&scope.Scope{Name: cls.DeclScope}, "instance")
	inst := value.NewClassInstance(cls, inner.Name)
	for _, f := range cls.AllFields() {
		ref, err := instantiateField(e, cls, inner.Name, f)
		if err != nil {
			return nil, err
		}
		inst.Fields[f.Name] = ref
	}
	cls.TrackInstance(inner.Name)
	if cls.Constructor != nil {
		if _, err := e.callBoundMethod(inst, cls.Constructor, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func instantiateField(e *Engine, cls *class.UserClass, innerScope string, f class.Field) (*value.Reference, error) {
	init := func() (value.Value, error) {
		if !f.HasInit {
			return value.NewNumber(decimal.Undef()), nil
		}
		child := e.Clone(&scope.Scope{Name: innerScope})
		return child.evalExpr(f.Init)
	}
	if !f.Static {
		v, err := init()
		if err != nil {
			return nil, err
		}
		return value.NewReference(v), nil
	}
	_, owner, ok := cls.ResolveFieldOwner(f.Name)
	if !ok {
		owner = cls
	}
	return owner.StaticRef(f.Name, init)
}
