package statement

import (
	"strings"

	"cantus/internal/cantuserr"
	"cantus/internal/class"
	"cantus/internal/value"
)

// execFunction registers a free function declared in script source
// (spec.md §4.6 "User function"). Its body is parsed once here and
// re-run, against a fresh sub-evaluator, on every call.
func execFunction(e *Engine, n *Node) (Result, error) {
	name, params, err := parseFuncSignature(n.Header)
	if err != nil {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "%s", err)
	}
	fn := &class.UserFunction{
		Name:      name,
		Params:    params,
		DeclScope: e.Scope.Name,
		Modifiers: n.Mods,
	}
	e.DefineFunction(fn, n.Body)
	return voidResult(), nil
}

// execNamespace runs its body in a named child scope (unlike `run`'s
// anonymous scope, the namespace name is stable, so declarations made
// inside it stay addressable from outside via import).
func execNamespace(e *Engine, n *Node) (Result, error) {
	name := strings.TrimSpace(n.Header)
	if name == "" {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "namespace declaration missing a name")
	}
	child := e.Clone(e.Scope.Child(name))
	return child.ExecBlock(n.Body)
}

// execSwitch evaluates its header once and runs the first matching
// case's body (spec.md §4.5 switch/case; no fallthrough between
// cases since only one ever runs). A case with an empty or "default"
// header always matches. An explicit `break` inside a case exits only
// the switch rather than propagating to an enclosing loop (the
// documented purpose of the breakLevel code); `return`/`continue`
// still propagate normally.
func execSwitch(e *Engine, n *Node) (Result, error) {
	subject, err := e.evalExpr(n.Header)
	if err != nil {
		return Result{}, err
	}
	brackets := e.Table.Brackets()
	for _, clause := range n.Clauses {
		if clause.Keyword != KwCase {
			continue
		}
		header := strings.TrimSpace(clause.Header)
		if header == "" || header == "default" {
			return runSwitchCase(e, clause)
		}
		for _, alt := range splitTopLevelComma(header, brackets) {
			cv, err := e.evalExpr(alt)
			if err != nil {
				return Result{}, err
			}
			if value.Equal(subject, cv) {
				return runSwitchCase(e, clause)
			}
		}
	}
	return voidResult(), nil
}

func runSwitchCase(e *Engine, clause *Node) (Result, error) {
	res, err := e.runChildScope(clause, "case")
	if err != nil {
		return Result{}, err
	}
	if res.Code == Break || res.Code == BreakLevel {
		return resumed(res.Value), nil
	}
	return res, nil
}

// execImport adds a scope to the current scope's import list (spec.md
// §6 `import`). A bare scope name imports a scope already declared in
// this run; a quoted/path-like header instead asks the Loader to
// resolve and evaluate an external module first.
func execImport(e *Engine, n *Node) (Result, error) {
	header := strings.TrimSpace(n.Header)
	if header == "" {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "import requires a scope name or path")
	}
	scopeName, err := e.resolveImportTarget(header)
	if err != nil {
		return Result{}, err
	}
	e.Import(scopeName)
	return voidResult(), nil
}

// execLoad resolves and evaluates an external module via the Loader,
// without importing it into the current scope (spec.md §6 `load`).
func execLoad(e *Engine, n *Node) (Result, error) {
	header := strings.TrimSpace(n.Header)
	if header == "" {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "load requires a path")
	}
	if _, err := e.resolveImportTarget(header); err != nil {
		return Result{}, err
	}
	return voidResult(), nil
}

// resolveImportTarget decides whether header names an already-declared
// scope or a path the Loader must fetch, returning the scope name to
// import either way.
func (e *Engine) resolveImportTarget(header string) (string, error) {
	unquoted := header
	if len(header) >= 2 && (header[0] == '"' || header[0] == '\'') && header[len(header)-1] == header[0] {
		unquoted = header[1 : len(header)-1]
	}
	if unquoted != header {
		if e.Loader == nil {
			return "", cantuserr.Evalf(0, "no module loader configured")
		}
		scopeName, err := e.Loader.Load(unquoted, e.Scope.Name)
		if err != nil {
			return "", err
		}
		return scopeName, nil
	}
	return unquoted, nil
}
