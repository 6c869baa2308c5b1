package statement

import "cantus/internal/scope"

// Keyword identifies a registered statement form (spec.md §4.5). Names
// are capped at 9 characters, the longest being "namespace".
type Keyword string

const (
	KwIf        Keyword = "if"
	KwElif      Keyword = "elif"
	KwElse      Keyword = "else"
	KwWhile     Keyword = "while"
	KwUntil     Keyword = "until"
	KwRepeat    Keyword = "repeat"
	KwRun       Keyword = "run"
	KwFor       Keyword = "for"
	KwTry       Keyword = "try"
	KwCatch     Keyword = "catch"
	KwFinally   Keyword = "finally"
	KwWith      Keyword = "with"
	KwSwitch    Keyword = "switch"
	KwCase      Keyword = "case"
	KwNamespace Keyword = "namespace"
	KwClass     Keyword = "class"
	KwReturn    Keyword = "return"
	KwBreak     Keyword = "break"
	KwContinue  Keyword = "continue"
	KwLet       Keyword = "let"
	KwGlobal    Keyword = "global"
	KwFunction  Keyword = "function"
	KwImport    Keyword = "import"
	KwLoad      Keyword = "load"
)

// blockLevel statements open an indented (or colon-delimited inline)
// body below/after their header.
var blockLevel = map[Keyword]bool{
	KwIf: true, KwWhile: true, KwUntil: true, KwRepeat: true, KwRun: true,
	KwFor: true, KwTry: true, KwWith: true, KwSwitch: true,
	KwNamespace: true, KwClass: true,
}

// auxKeywords extend the immediately preceding main clause at the same
// indentation rather than starting an independent top-level statement
// (spec.md §4.5: elif/else, catch/finally, case).
var auxKeywords = map[Keyword]bool{
	KwElif: true, KwElse: true, KwCatch: true, KwFinally: true, KwCase: true,
}

var allKeywords = map[string]Keyword{
	"if": KwIf, "elif": KwElif, "else": KwElse,
	"while": KwWhile, "until": KwUntil, "repeat": KwRepeat, "run": KwRun,
	"for": KwFor, "try": KwTry, "catch": KwCatch, "finally": KwFinally,
	"with": KwWith, "switch": KwSwitch, "case": KwCase,
	"namespace": KwNamespace, "class": KwClass,
	"return": KwReturn, "break": KwBreak, "continue": KwContinue,
	"let": KwLet, "global": KwGlobal, "function": KwFunction,
	"import": KwImport, "load": KwLoad,
}

var modifierWords = map[string]scope.Modifier{
	"public":   scope.ModPublic,
	"private":  scope.ModPrivate,
	"static":   scope.ModStatic,
	"internal": scope.ModInternal,
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// scanWord returns the leading identifier-like word of s and the
// remainder, both trimmed of surrounding horizontal whitespace.
func scanWord(s string) (string, string) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	start := i
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	word := s[start:i]
	rest := trimLeftSpace(s[i:])
	return word, rest
}

func trimLeftSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

// parseModifiers consumes leading modifier words (public/private/static/
// internal, any order, spec.md §4.5 "modifier-prefixed declarations").
func parseModifiers(text string) (scope.Modifier, string) {
	var mods scope.Modifier
	rest := text
	for {
		word, tail := scanWord(rest)
		if m, ok := modifierWords[word]; ok {
			mods |= m
			rest = tail
			continue
		}
		break
	}
	return mods, rest
}

// splitKeyword consumes modifiers then a registered keyword from the
// front of line, if present.
func splitKeyword(line string) (scope.Modifier, Keyword, bool, string) {
	mods, afterMods := parseModifiers(line)
	word, rest := scanWord(afterMods)
	if kw, ok := allKeywords[word]; ok {
		return mods, kw, true, rest
	}
	return mods, "", false, line
}

func wordAt(s string, pos int, word string) bool {
	if pos+len(word) > len(s) || s[pos:pos+len(word)] != word {
		return false
	}
	if pos > 0 && isWordByte(s[pos-1]) {
		return false
	}
	end := pos + len(word)
	return end >= len(s) || !isWordByte(s[end])
}
