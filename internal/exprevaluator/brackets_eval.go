package exprevaluator

import (
	"strings"

	"cantus/internal/cantuserr"
	"cantus/internal/decimal"
	"cantus/internal/operator"
	"cantus/internal/value"
)

// sliceBracket returns the text between br's open and matching close
// signs starting at pos (which indexes the first character of Open),
// plus the index just past the close sign.
func (e *Evaluator) sliceBracket(brackets []*operator.Bracket, br *operator.Bracket, text string, pos int) (string, int, error) {
	start := pos + len(br.Open)
	closeIdx := operator.MatchClose(brackets, br, text, start)
	if closeIdx < 0 {
		return "", 0, cantuserr.Syntaxf(e.Line, "unmatched %q", br.Open)
	}
	return text[start:closeIdx], closeIdx + len(br.Close), nil
}

// evalBracket evaluates one bracket span per its kind (spec.md §4.4 step
// 1). consumesPrev reports whether the span acts as a call/index applied
// to the previously emitted token, which the caller should then drop.
func (e *Evaluator) evalBracket(br *operator.Bracket, inner string, prevToks []token, adjacent bool, opts Options) (token, bool, error) {
	brackets := e.Table.Brackets()

	switch br.Name {
	case "dquote", "squote", "triple-dquote":
		return token{kind: tokValue, val: value.NewText(value.ResolveEscapes(inner))}, false, nil
	case "raw-dquote", "raw-squote":
		return token{kind: tokValue, val: value.NewText(inner)}, false, nil
	case "lambda":
		arrow := strings.Index(inner, "=>")
		if arrow < 0 {
			return token{}, false, cantuserr.Syntaxf(e.Line, "lambda literal missing '=>'")
		}
		lam := value.NewFlatLambda(inner[:arrow], inner[arrow+2:])
		return token{kind: tokValue, val: lam}, false, nil
	case "pipe":
		inside, err := e.Evaluate(inner, opts)
		if err != nil {
			return token{}, false, err
		}
		abs, err := absValue(inside)
		if err != nil {
			return token{}, false, err
		}
		return token{kind: tokValue, val: abs}, false, nil
	case "paren":
		if adjacent && len(prevToks) > 0 {
			prev := prevToks[len(prevToks)-1]
			prevVal := prev.val
			if prev.ref != nil {
				prevVal = prev.ref.Resolve()
			}
			if lam, ok := value.Unwrap(prevVal).(*value.Lambda); ok {
				args, err := e.evalArgList(inner, opts, brackets)
				if err != nil {
					return token{}, false, err
				}
				result, err := e.Host.InvokeLambda(lam, args)
				if err != nil {
					return token{}, false, err
				}
				return token{kind: tokValue, val: result}, true, nil
			}
			if prev.kind == tokIdent {
				args, err := e.evalArgList(inner, opts, brackets)
				if err != nil {
					return token{}, false, err
				}
				name := prev.name
				result, found, err := e.Host.Call(name, args)
				if err != nil {
					return token{}, false, err
				}
				if !found {
					return token{}, false, cantuserr.Evalf(e.Line, "undefined function %q", name)
				}
				return token{kind: tokValue, val: result}, true, nil
			}
		}
		result, err := e.Evaluate(inner, opts)
		if err != nil {
			return token{}, false, err
		}
		return token{kind: tokValue, val: result}, false, nil
	case "index":
		if adjacent && len(prevToks) > 0 {
			args, err := e.evalArgList(inner, opts, brackets)
			if err != nil {
				return token{}, false, err
			}
			prev := prevToks[len(prevToks)-1]
			target := prev.val
			if prev.ref != nil {
				target = prev.ref.Resolve()
			}
			result, ref, err := indexInto(target, args)
			if err != nil {
				return token{}, false, err
			}
			return token{kind: tokValue, val: result, ref: ref}, true, nil
		}
		m, err := e.evalMatrixLiteral(inner, opts, brackets)
		if err != nil {
			return token{}, false, err
		}
		return token{kind: tokValue, val: m}, false, nil
	case "async":
		id, err := e.Host.SpawnAsync(inner)
		if err != nil {
			return token{}, false, err
		}
		return token{kind: tokValue, val: id}, false, nil
	case "brace":
		s, err := e.evalSetLiteral(inner, opts, brackets)
		if err != nil {
			return token{}, false, err
		}
		return token{kind: tokValue, val: s}, false, nil
	}
	return token{}, false, cantuserr.Syntaxf(e.Line, "no evaluator wired for bracket kind %q", br.Name)
}

func (e *Evaluator) evalArgList(inner string, opts Options, brackets []*operator.Bracket) ([]value.Value, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}
	parts := splitTopLevel(inner, ',', brackets)
	args := make([]value.Value, len(parts))
	for i, p := range parts {
		v, err := e.Evaluate(p, opts)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (e *Evaluator) evalMatrixLiteral(inner string, opts Options, brackets []*operator.Bracket) (*value.Matrix, error) {
	if strings.TrimSpace(inner) == "" {
		return value.NewMatrix(nil), nil
	}
	parts := splitTopLevel(inner, ',', brackets)
	items := make([]value.RowItem, 0, len(parts))
	for _, p := range parts {
		v, err := e.Evaluate(p, opts)
		if err != nil {
			return nil, err
		}
		if m, ok := value.Unwrap(v).(*value.Matrix); ok {
			items = append(items, value.RowItem{Nested: m})
		} else {
			items = append(items, value.RowItem{Scalar: v})
		}
	}
	return value.NewMatrixFromItems(items).Normalize(), nil
}

func (e *Evaluator) evalSetLiteral(inner string, opts Options, brackets []*operator.Bracket) (*value.Set, error) {
	s := value.NewSet()
	if strings.TrimSpace(inner) == "" {
		return s, nil
	}
	parts := splitTopLevel(inner, ',', brackets)
	for _, p := range parts {
		keyText, valText, hasVal := splitOnceTopLevel(p, ':', brackets)
		key, err := e.Evaluate(keyText, opts)
		if err != nil {
			return nil, err
		}
		if !hasVal {
			s.Add(key)
			continue
		}
		val, err := e.Evaluate(valText, opts)
		if err != nil {
			return nil, err
		}
		s.Put(key, val)
	}
	return s, nil
}

func absValue(v value.Value) (value.Value, error) {
	switch vv := value.Unwrap(v).(type) {
	case *value.Number:
		return value.NewNumber(decimal.Abs(vv.D)), nil
	case *value.Complex:
		return value.NewNumber(decimal.FromFloat64(vv.Magnitude())), nil
	case *value.Matrix:
		return value.Magnitude(vv), nil
	default:
		return nil, cantuserr.Mathf(0, "absolute value is not defined for %s", vv.Kind())
	}
}
