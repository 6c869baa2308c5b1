package statement

import (
	"cantus/internal/cantuserr"
	"cantus/internal/class"
	"cantus/internal/scope"
)

// DeclareFunction parses signature ("add(a, b=1)") and bodyText as a
// user function in the current scope, for the facade's
// `define_user_function` operation (spec.md §6) — the same parsing
// execFunction applies to a script-authored `function` statement, just
// driven directly instead of from a parsed Node.
func (e *Engine) DeclareFunction(signature, bodyText string, mods scope.Modifier) error {
	name, params, err := parseFuncSignature(signature)
	if err != nil {
		return cantuserr.Syntaxf(0, "%s", err)
	}
	body, err := Parse(bodyText, e.Table.Brackets())
	if err != nil {
		return err
	}
	fn := &class.UserFunction{
		Name:      name,
		Params:    params,
		DeclScope: e.Scope.Name,
		Modifiers: mods,
	}
	e.DefineFunction(fn, body)
	return nil
}

// DeclareClass parses header ("Circle(Shape)") and bodyText as a user
// class in the current scope, for the facade's `define_user_class`
// operation (spec.md §6). parentOverride, if non-empty, replaces any
// parent list parsed out of header (the facade's `{parents}` option).
func (e *Engine) DeclareClass(header, bodyText string, parentOverride []string, mods scope.Modifier) error {
	name, parentNames, err := parseClassHeader(header)
	if err != nil {
		return cantuserr.Syntaxf(0, "%s", err)
	}
	if len(parentOverride) > 0 {
		parentNames = parentOverride
	}
	cls := class.NewUserClass(name, e.Scope.Name)
	cls.Modifiers = mods
	for _, pname := range parentNames {
		parent, ok := e.resolveClass(pname)
		if !ok {
			return cantuserr.Evalf(0, "unknown parent class %q", pname)
		}
		cls.Parents = append(cls.Parents, parent)
	}
	body, err := Parse(bodyText, e.Table.Brackets())
	if err != nil {
		return err
	}
	for _, member := range body {
		if err := addClassMember(e, cls, member); err != nil {
			return err
		}
	}
	e.DefineClass(cls)
	return nil
}
