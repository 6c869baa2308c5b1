package exprevaluator

import (
	"cantus/internal/cantuserr"
	"cantus/internal/operator"
	"cantus/internal/value"
)

// resolveImplicitMultiplication inserts a synthetic "*" between two
// adjacent operand tokens with no operator sign separating them, e.g.
// "2x" or "2(3+4)" (spec.md §4.4 step 2).
func resolveImplicitMultiplication(toks []token, table *operator.Table) []token {
	if len(toks) < 2 {
		return toks
	}
	out := make([]token, 0, len(toks)*2)
	out = append(out, toks[0])
	for i := 1; i < len(toks); i++ {
		if isOperand(toks[i-1]) && isOperand(toks[i]) {
			out = append(out, token{kind: tokOp, name: "*"})
		}
		out = append(out, toks[i])
	}
	return out
}

func isOperand(t token) bool { return t.kind == tokValue || t.kind == tokIdent }

// runPrecedencePasses walks the operator table highest precedence to
// lowest (spec.md §4.4 steps 3-5), reducing matched operator occurrences
// until each level is exhausted, then moving to the next level down.
func (e *Evaluator) runPrecedencePasses(toks []token, opts Options) ([]token, error) {
	for _, p := range e.Table.Precedences() {
		ops := e.Table.AtPrecedence(p)
		if len(ops) == 0 {
			continue
		}
		bySign := indexBySignArity(ops)
		rightAssoc := levelIsRightAssoc(ops)
		var err error
		toks, err = e.reduceLevel(toks, bySign, p, rightAssoc, opts.ConditionMode)
		if err != nil {
			return nil, err
		}
	}
	return toks, nil
}

func indexBySignArity(ops []*operator.Operator) map[string]map[operator.Arity]*operator.Operator {
	m := make(map[string]map[operator.Arity]*operator.Operator)
	for _, op := range ops {
		for _, sign := range op.Signs {
			if m[sign] == nil {
				m[sign] = make(map[operator.Arity]*operator.Operator)
			}
			m[sign][op.Arity] = op
		}
	}
	return m
}

func levelIsRightAssoc(ops []*operator.Operator) bool {
	for _, op := range ops {
		if op.RightAssoc {
			return true
		}
	}
	return false
}

// reduceLevel repeatedly scans toks (right-to-left for a right-
// associative level, left-to-right otherwise), reducing the first
// matching operator occurrence it finds, until a full scan finds
// nothing left to reduce.
func (e *Evaluator) reduceLevel(toks []token, bySign map[string]map[operator.Arity]*operator.Operator, precedence int, rightAssoc, conditionMode bool) ([]token, error) {
	for {
		reduced := false
		if rightAssoc {
			for i := len(toks) - 1; i >= 0; i-- {
				nt, start, count, err := e.tryReduceAt(toks, i, bySign, precedence, conditionMode)
				if err != nil {
					return nil, err
				}
				if count > 0 {
					toks = spliceReduce(toks, start, count, nt)
					reduced = true
					break
				}
			}
		} else {
			for i := 0; i < len(toks); i++ {
				nt, start, count, err := e.tryReduceAt(toks, i, bySign, precedence, conditionMode)
				if err != nil {
					return nil, err
				}
				if count > 0 {
					toks = spliceReduce(toks, start, count, nt)
					reduced = true
					break
				}
			}
		}
		if !reduced {
			return toks, nil
		}
	}
}

// tryReduceAt checks whether toks[i] is an operator sign registered at
// precedence, with operands available per its arity. It returns the
// reduced token plus the [start, start+count) span it replaces; count
// is 0 when nothing matched.
func (e *Evaluator) tryReduceAt(toks []token, i int, bySign map[string]map[operator.Arity]*operator.Operator, precedence int, conditionMode bool) (token, int, int, error) {
	if toks[i].kind != tokOp {
		return token{}, 0, 0, nil
	}
	arities, ok := bySign[toks[i].name]
	if !ok {
		return token{}, 0, 0, nil
	}
	hasLeft := i > 0 && isOperand(toks[i-1])
	hasRight := i+1 < len(toks) && isOperand(toks[i+1])

	if op, ok := arities[operator.Binary]; ok && hasLeft && hasRight {
		args := []operator.Operand{operandOf(toks[i-1], conditionMode), operandOf(toks[i+1], conditionMode)}
		result, err := e.execWithDefer(op, toks[i].name, args)
		if err != nil {
			return token{}, 0, 0, err
		}
		return resultToken(result), i - 1, 3, nil
	}
	if op, ok := arities[operator.UnaryBefore]; ok && hasRight && !hasLeft {
		args := []operator.Operand{operandOf(toks[i+1], conditionMode)}
		result, err := e.execWithDefer(op, toks[i].name, args)
		if err != nil {
			return token{}, 0, 0, err
		}
		return resultToken(result), i, 2, nil
	}
	if op, ok := arities[operator.UnaryAfter]; ok && hasLeft {
		args := []operator.Operand{operandOf(toks[i-1], conditionMode)}
		result, err := e.execWithDefer(op, toks[i].name, args)
		if err != nil {
			return token{}, 0, 0, err
		}
		return resultToken(result), i - 1, 2, nil
	}
	return token{}, 0, 0, nil
}

func operandOf(t token, conditionMode bool) operator.Operand {
	return operator.Operand{Val: t.val, Ref: t.ref, ConditionMode: conditionMode}
}

func resultToken(result value.Value) token {
	if ref, ok := result.(*value.Reference); ok {
		return token{kind: tokValue, val: ref.Resolve(), ref: ref}
	}
	return token{kind: tokValue, val: result}
}

func spliceReduce(toks []token, start, count int, nt token) []token {
	out := make([]token, 0, len(toks)-count+1)
	out = append(out, toks[:start]...)
	out = append(out, nt)
	out = append(out, toks[start+count:]...)
	return out
}

// execWithDefer runs op.Exec, following the defer protocol (spec.md
// §4.3/§4.4 step 5): if the result is the defer sentinel, it re-dispatches
// to the next-lower registration of the same sign and tries again.
func (e *Evaluator) execWithDefer(op *operator.Operator, sign string, args []operator.Operand) (value.Value, error) {
	for {
		result, err := op.Exec(args)
		if err != nil {
			return nil, err
		}
		if !value.IsDefer(result) {
			return result, nil
		}
		next := e.Table.NextLower(sign, op.Precedence)
		if next == nil {
			return nil, cantuserr.Syntaxf(e.Line, "operator %q deferred with no lower registration", sign)
		}
		op = next
	}
}
