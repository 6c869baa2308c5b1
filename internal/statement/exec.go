package statement

import "cantus/internal/cantuserr"

// handler executes one node, given its engine context.
type handler func(e *Engine, n *Node) (Result, error)

var handlers = map[Keyword]handler{
	KwIf:        execIf,
	KwWhile:     execWhile,
	KwUntil:     execUntil,
	KwRepeat:    execRepeat,
	KwRun:       execRun,
	KwFor:       execFor,
	KwTry:       execTry,
	KwWith:      execWith,
	KwSwitch:    execSwitch,
	KwNamespace: execNamespace,
	KwClass:     execClass,
	KwReturn:    execReturn,
	KwBreak:     execBreak,
	KwContinue:  execContinue,
	KwLet:       execLet,
	KwGlobal:    execGlobal,
	KwFunction:  execFunction,
	KwImport:    execImport,
	KwLoad:      execLoad,
}

// ExecBlock runs a sequence of sibling nodes in order, stopping early on
// any non-Resume control code (spec.md §4.5 ExecCode propagation).
func (e *Engine) ExecBlock(nodes []*Node) (Result, error) {
	last := voidResult()
	for _, n := range nodes {
		if e.dying_() {
			return last, cantuserr.Evalf(lineOf(n), "evaluation aborted")
		}
		res, err := e.ExecNode(n)
		if err != nil {
			return Result{}, err
		}
		last = res
		if res.Code != Resume {
			return res, nil
		}
	}
	return last, nil
}

// ExecNode dispatches a single statement node.
func (e *Engine) ExecNode(n *Node) (Result, error) {
	if n.IsStmt {
		v, err := e.evalExpr(n.Header)
		if err != nil {
			return Result{}, err
		}
		return resumed(v), nil
	}
	h, ok := handlers[n.Keyword]
	if !ok {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "unrecognized statement keyword %q", n.Keyword)
	}
	return h(e, n)
}
