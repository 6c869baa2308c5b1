package statement

import (
	"strings"

	"cantus/internal/cantuserr"
	"cantus/internal/scope"
	"cantus/internal/value"
)

// execTry runs the body, routing any raised error to the first matching
// catch clause (spec.md §4.5 try/catch/finally). Catch with no binding
// name defaults to binding the error under "error" (recorded Open
// Question resolution). A finally clause always runs, and its own
// control-flow code wins over whatever the try/catch produced.
func execTry(e *Engine, n *Node) (Result, error) {
	res, err := e.runChildScope(n, "try")
	if err != nil {
		ce, _ := cantuserr.As(err)
		msg := err.Error()
		if ce != nil {
			msg = ce.Message
		}
		handled := false
		for _, clause := range n.Clauses {
			if clause.Keyword != KwCatch {
				continue
			}
			binding := strings.TrimSpace(clause.Header)
			if binding == "" {
				binding = "error"
			}
			child := e.Clone(newInnerScopeName(e.Scope, "catch"))
			child.SetVariable(binding, value.NewText(msg), scope.Modifier(0))
			res, err = child.ExecBlock(clause.Body)
			handled = true
			break
		}
		if !handled {
			return finallyThen(e, n, Result{}, err)
		}
	}
	return finallyThen(e, n, res, err)
}

func finallyThen(e *Engine, n *Node, res Result, err error) (Result, error) {
	for _, clause := range n.Clauses {
		if clause.Keyword != KwFinally {
			continue
		}
		fres, ferr := e.runChildScope(clause, "finally")
		if ferr != nil {
			return Result{}, ferr
		}
		if fres.Code != Resume {
			return fres, nil
		}
	}
	return res, err
}

// execWith evaluates a resource expression, binds it (default name "it"
// when no `as` clause is given) in a child scope and runs the body there.
// No release step follows the body.
func execWith(e *Engine, n *Node) (Result, error) {
	header := n.Header
	name := "it"
	exprText := header
	if idx := findTopLevelWord(header, "as"); idx >= 0 {
		exprText = strings.TrimSpace(header[:idx])
		name = strings.TrimSpace(header[idx+2:])
	}
	v, err := e.evalExpr(exprText)
	if err != nil {
		return Result{}, err
	}
	child := e.Clone(newInnerScopeName(e.Scope, "with"))
	child.SetVariable(name, v, scope.Modifier(0))
	return child.ExecBlock(n.Body)
}
