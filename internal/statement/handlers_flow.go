package statement

import (
	"strings"

	"cantus/internal/cantuserr"
	"cantus/internal/decimal"
	"cantus/internal/scope"
	"cantus/internal/value"
)

func execIf(e *Engine, n *Node) (Result, error) {
	ok, err := e.evalCond(n.Header)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return e.runChildScope(n, "if")
	}
	for _, clause := range n.Clauses {
		switch clause.Keyword {
		case KwElif:
			cok, err := e.evalCond(clause.Header)
			if err != nil {
				return Result{}, err
			}
			if cok {
				return e.runChildScope(clause, "elif")
			}
		case KwElse:
			return e.runChildScope(clause, "else")
		}
	}
	return voidResult(), nil
}

func execWhile(e *Engine, n *Node) (Result, error) {
	return e.runLoop(n, func() (bool, error) { return e.evalCond(n.Header) })
}

func execUntil(e *Engine, n *Node) (Result, error) {
	return e.runLoop(n, func() (bool, error) {
		ok, err := e.evalCond(n.Header)
		return !ok, err
	})
}

// execRepeat runs the body once unconditionally, then again while the
// trailing condition holds (spec.md §4.5 "repeat" alongside while/until).
func execRepeat(e *Engine, n *Node) (Result, error) {
	first := true
	return e.runLoop(n, func() (bool, error) {
		if first {
			first = false
			return true, nil
		}
		return e.evalCond(n.Header)
	})
}

// execRun executes its body once as a bare scoped block, with no
// condition (spec.md §4.5 lists `run` among block-level flow forms).
func execRun(e *Engine, n *Node) (Result, error) {
	return e.runChildScope(n, "run")
}

// runLoop drives a condition-gated loop body, honoring the configurable
// loop-limit (spec.md §4.5 "Loop limit") and break/continue/return codes
// (spec.md §4.5 ExecCode, testable property 9).
func (e *Engine) runLoop(n *Node, cond func() (bool, error)) (Result, error) {
	iterations := 0
	last := voidResult()
	for {
		if e.dying_() {
			return last, cantuserr.Evalf(lineOf(n), "evaluation aborted")
		}
		ok, err := cond()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return last, nil
		}
		iterations++
		if e.LoopLimit > 0 && iterations > e.LoopLimit {
			return Result{}, cantuserr.Evalf(lineOf(n), "loop limit exceeded (%d iterations)", e.LoopLimit)
		}
		res, err := e.runChildScope(n, "loop")
		if err != nil {
			return Result{}, err
		}
		switch res.Code {
		case Break:
			last = resumed(res.Value)
			return last, nil
		case Return, BreakLevel:
			return res, nil
		case Continue:
			last = resumed(res.Value)
			continue
		default:
			last = res
		}
	}
}

// runChildScope executes n.Body in a fresh child scope of e.Scope,
// restoring e.Scope afterward.
func (e *Engine) runChildScope(n *Node, tag string) (Result, error) {
	child := e.Clone(newInnerScopeName(e.Scope, tag))
	return child.ExecBlock(n.Body)
}

// splitForHeader distinguishes `for … in …` from `for … = … to … [step
// …]` (spec.md §4.5).
func splitForHeader(header string) (isToForm bool, vars []string, iterExpr, startExpr, toExpr, stepExpr string) {
	if eq := strings.IndexByte(header, '='); eq >= 0 {
		if to := findTopLevelWord(header[eq+1:], "to"); to >= 0 {
			varName := strings.TrimSpace(header[:eq])
			startExpr = strings.TrimSpace(header[eq+1 : eq+1+to])
			rest := header[eq+1+to+2:]
			stepExpr = "1"
			if step := findTopLevelWord(rest, "step"); step >= 0 {
				toExpr = strings.TrimSpace(rest[:step])
				stepExpr = strings.TrimSpace(rest[step+4:])
			} else {
				toExpr = strings.TrimSpace(rest)
			}
			return true, []string{varName}, "", startExpr, toExpr, stepExpr
		}
	}
	if in := findTopLevelWord(header, "in"); in >= 0 {
		varsPart := strings.TrimSpace(header[:in])
		iterExpr = strings.TrimSpace(header[in+2:])
		for _, v := range strings.Split(varsPart, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				vars = append(vars, v)
			}
		}
		return false, vars, iterExpr, "", "", ""
	}
	return false, nil, "", "", "", ""
}

func findTopLevelWord(s, word string) int {
	for i := 0; i+len(word) <= len(s); i++ {
		if wordAt(s, i, word) {
			return i
		}
	}
	return -1
}

func execFor(e *Engine, n *Node) (Result, error) {
	isToForm, vars, iterExpr, startExpr, toExpr, stepExpr := splitForHeader(n.Header)
	if isToForm {
		return execForTo(e, n, vars[0], startExpr, toExpr, stepExpr)
	}
	if len(vars) == 0 {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "malformed for-loop header %q", n.Header)
	}
	return execForIn(e, n, vars, iterExpr)
}

func execForTo(e *Engine, n *Node, varName, startExpr, toExpr, stepExpr string) (Result, error) {
	start, err := e.evalExpr(startExpr)
	if err != nil {
		return Result{}, err
	}
	toV, err := e.evalExpr(toExpr)
	if err != nil {
		return Result{}, err
	}
	stepV, err := e.evalExpr(stepExpr)
	if err != nil {
		return Result{}, err
	}
	startN, ok1 := value.Unwrap(start).(*value.Number)
	toN, ok2 := value.Unwrap(toV).(*value.Number)
	stepN, ok3 := value.Unwrap(stepV).(*value.Number)
	if !ok1 || !ok2 || !ok3 {
		return Result{}, cantuserr.Evalf(lineOf(n), "for-to bounds must be numeric")
	}
	if decimal.IsZero(stepN.D) {
		return Result{}, cantuserr.Evalf(lineOf(n), "for-to step cannot be 0")
	}
	ascending := decimal.Sign(stepN.D) > 0
	cur := startN.D
	last := voidResult()
	iterations := 0
	for {
		if ascending {
			if decimal.Cmp(cur, toN.D) > 0 {
				break
			}
		} else {
			if decimal.Cmp(cur, toN.D) < 0 {
				break
			}
		}
		if e.dying_() {
			return last, cantuserr.Evalf(lineOf(n), "evaluation aborted")
		}
		iterations++
		if e.LoopLimit > 0 && iterations > e.LoopLimit {
			return Result{}, cantuserr.Evalf(lineOf(n), "loop limit exceeded (%d iterations)", e.LoopLimit)
		}
		child := e.Clone(newInnerScopeName(e.Scope, "for"))
		child.SetVariable(varName, value.NewNumber(cur), 0)
		res, err := child.ExecBlock(n.Body)
		if err != nil {
			return Result{}, err
		}
		switch res.Code {
		case Break:
			return resumed(res.Value), nil
		case Return, BreakLevel:
			return res, nil
		case Continue:
			last = resumed(res.Value)
		default:
			last = res
		}
		cur = decimal.Add(cur, stepN.D)
	}
	return last, nil
}

func execForIn(e *Engine, n *Node, vars []string, iterExpr string) (Result, error) {
	iterV, err := e.evalExpr(iterExpr)
	if err != nil {
		return Result{}, err
	}
	items, err := iterate(iterV)
	if err != nil {
		return Result{}, err
	}
	last := voidResult()
	iterations := 0
	for _, it := range items {
		if e.dying_() {
			return last, cantuserr.Evalf(lineOf(n), "evaluation aborted")
		}
		iterations++
		if e.LoopLimit > 0 && iterations > e.LoopLimit {
			return Result{}, cantuserr.Evalf(lineOf(n), "loop limit exceeded (%d iterations)", e.LoopLimit)
		}
		child := e.Clone(newInnerScopeName(e.Scope, "for"))
		if len(vars) >= 2 && it.val != nil {
			child.SetVariable(vars[0], it.key, 0)
			child.SetVariable(vars[1], it.val, 0)
		} else {
			child.SetVariable(vars[0], it.key, 0)
		}
		res, err := child.ExecBlock(n.Body)
		if err != nil {
			return Result{}, err
		}
		switch res.Code {
		case Break:
			return resumed(res.Value), nil
		case Return, BreakLevel:
			return res, nil
		case Continue:
			last = resumed(res.Value)
		default:
			last = res
		}
	}
	return last, nil
}

type iterItem struct {
	key value.Value
	val value.Value
}

// iterate flattens any ordered sequence, map, or string into key/value
// pairs (spec.md §4.5 "For-in"); for plain sequences key is the element
// and val is nil, for maps both are populated.
func iterate(v value.Value) ([]iterItem, error) {
	switch vv := value.Unwrap(v).(type) {
	case *value.Tuple:
		out := make([]iterItem, len(vv.Items))
		for i, r := range vv.Items {
			out[i] = iterItem{key: r.Resolve()}
		}
		return out, nil
	case *value.LinkedList:
		items := vv.ToSlice()
		out := make([]iterItem, len(items))
		for i, it := range items {
			out[i] = iterItem{key: it}
		}
		return out, nil
	case *value.Matrix:
		var out []iterItem
		for i := 0; i < vv.Height(); i++ {
			row := &value.Matrix{Rows: [][]*value.Reference{vv.Rows[i]}, Width: vv.Width}
			out = append(out, iterItem{key: row})
		}
		return out, nil
	case *value.Set:
		out := make([]iterItem, len(vv.Entries))
		for i, ent := range vv.Entries {
			out[i] = iterItem{key: ent.Key, val: ent.Val}
		}
		return out, nil
	case *value.HashSet:
		entries := vv.Entries()
		out := make([]iterItem, len(entries))
		for i, ent := range entries {
			out[i] = iterItem{key: ent.Key, val: ent.Val}
		}
		return out, nil
	case *value.Text:
		runes := []rune(vv.S)
		out := make([]iterItem, len(runes))
		for i, r := range runes {
			out[i] = iterItem{key: value.NewText(string(r))}
		}
		return out, nil
	default:
		return nil, cantuserr.Evalf(0, "%s is not iterable", vv.Kind())
	}
}

func execReturn(e *Engine, n *Node) (Result, error) {
	if strings.TrimSpace(n.Header) == "" {
		return Result{Value: value.NewNumber(decimal.Undef()), Code: Return}, nil
	}
	v, err := e.evalExpr(n.Header)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Code: Return}, nil
}

func execBreak(e *Engine, n *Node) (Result, error) {
	return Result{Value: value.NewNumber(decimal.Undef()), Code: Break}, nil
}

func execContinue(e *Engine, n *Node) (Result, error) {
	return Result{Value: value.NewNumber(decimal.Undef()), Code: Continue}, nil
}

// execLet and execGlobal both bind a variable, differing only in the
// declaring scope: let always declares in the current scope, global
// forces the binding into the root scope (spec.md §4.6 modifiers).
func execLet(e *Engine, n *Node) (Result, error) {
	return assignDecl(e, n, e.Scope.Name)
}

func execGlobal(e *Engine, n *Node) (Result, error) {
	return assignDecl(e, n, scope.Root)
}

func assignDecl(e *Engine, n *Node, declScope string) (Result, error) {
	name, exprText, hasInit := strings.Cut(n.Header, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, cantuserr.Syntaxf(lineOf(n), "malformed declaration %q", n.Header)
	}
	var v value.Value = value.NewNumber(decimal.Undef())
	if hasInit {
		var err error
		v, err = e.evalExpr(strings.TrimSpace(exprText))
		if err != nil {
			return Result{}, err
		}
	}
	e.Store.Set(declScope, name, v, n.Mods)
	return resumed(v), nil
}
