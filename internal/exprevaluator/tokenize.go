package exprevaluator

import (
	"strings"
	"unicode"

	"cantus/internal/cantuserr"
	"cantus/internal/decimal"
	"cantus/internal/operator"
	"cantus/internal/value"
)

// tokenize implements spec.md §4.4 steps 1-2: a bracket-first scan that
// reduces every bracket span to a value token as it's found, then splits
// whatever remains at registered operator signs (longest match first)
// and at identifier/literal boundaries.
func (e *Evaluator) tokenize(text string, opts Options) ([]token, error) {
	var toks []token
	signs := e.Table.Signs()
	brackets := e.Table.Brackets()
	i := 0
	n := len(text)
	prevEnd := -1

	for i < n {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		adjacent := i == prevEnd

		if br, ok := operator.FindOpen(brackets, text, i); ok {
			inner, closeEnd, err := e.sliceBracket(brackets, br, text, i)
			if err != nil {
				return nil, err
			}
			tok, consumesPrev, err := e.evalBracket(br, inner, toks, adjacent, opts)
			if err != nil {
				return nil, err
			}
			tok.adjacentToPrev = adjacent
			if consumesPrev && len(toks) > 0 {
				toks = toks[:len(toks)-1]
			}
			toks = append(toks, tok)
			i = closeEnd
			prevEnd = i
			continue
		}

		if sign, ok := matchLongestSign(signs, text, i); ok {
			toks = append(toks, token{kind: tokOp, name: sign, adjacentToPrev: adjacent})
			i += len(sign)
			prevEnd = i
			continue
		}

		if isIdentStart(rune(c)) {
			start := i
			for i < n && isIdentPart(rune(text[i])) {
				i++
			}
			name := text[start:i]
			tok := e.resolveIdentToken(name, opts)
			tok.adjacentToPrev = adjacent
			toks = append(toks, tok)
			prevEnd = i
			continue
		}

		if isDigit(c) {
			start := i
			i = scanNumber(text, i)
			d, ok := decimal.FromString(text[start:i], true)
			if !ok {
				return nil, cantuserr.Syntaxf(e.Line, "invalid numeric literal %q", text[start:i])
			}
			toks = append(toks, token{kind: tokValue, val: value.NewNumber(d), adjacentToPrev: adjacent})
			prevEnd = i
			continue
		}

		return nil, cantuserr.Syntaxf(e.Line, "unexpected character %q at position %d", string(c), i)
	}
	return toks, nil
}

func (e *Evaluator) resolveIdentToken(name string, opts Options) token {
	switch name {
	case "true":
		return token{kind: tokValue, val: value.NewBoolean(true)}
	case "false":
		return token{kind: tokValue, val: value.NewBoolean(false)}
	case "null", "undefined":
		return token{kind: tokValue, val: value.NewNumber(decimal.Undef())}
	}
	if val, ref, found := e.Host.ResolveIdentifier(name); found {
		return token{kind: tokIdent, name: name, val: val, ref: ref}
	}
	if opts.IdentifierAsText {
		return token{kind: tokValue, val: value.NewIdentifier(name)}
	}
	return token{kind: tokIdent, name: name, val: value.NewIdentifier(name)}
}

func hasPrefixAt(s string, pos int, prefix string) bool {
	if pos+len(prefix) > len(s) {
		return false
	}
	return s[pos:pos+len(prefix)] == prefix
}

// matchLongestSign finds the longest registered operator sign starting
// at pos. Word-like signs (`mod`, `and`, `choose`, ...) additionally
// require a non-identifier boundary after the match, so they don't
// swallow the prefix of a longer identifier such as "mode".
func matchLongestSign(signs []string, s string, pos int) (string, bool) {
	for _, sign := range signs {
		if !hasPrefixAt(s, pos, sign) {
			continue
		}
		if isIdentStart(rune(sign[0])) {
			end := pos + len(sign)
			if end < len(s) && isIdentPart(rune(s[end])) {
				continue
			}
		}
		return sign, true
	}
	return "", false
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(b byte) bool      { return b >= '0' && b <= '9' }

func scanNumber(s string, i int) int {
	n := len(s)
	if strings.HasPrefix(s[i:], "0x") || strings.HasPrefix(s[i:], "0X") {
		i += 2
		for i < n && isHexDigit(s[i]) {
			i++
		}
		return i
	}
	for i < n && isDigit(s[i]) {
		i++
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && isDigit(s[i]) {
			i++
		}
	}
	return i
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
