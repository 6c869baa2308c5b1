package statement

import (
	"strings"

	"cantus/internal/operator"
	"cantus/internal/scope"
)

// Node is one parsed statement: either a recognized keyword form or a
// plain expression/assignment line. Block-level keywords may carry an
// indented Body, an inline Body split off the same logical line after a
// top-level ':', and same-indent aux Clauses (elif/else/catch/finally/
// case) that extend the construct (spec.md §4.5).
type Node struct {
	Mods    scope.Modifier
	Keyword Keyword
	IsStmt  bool
	Header  string
	Line    int
	Indent  int
	Body    []*Node
	Clauses []*Node
}

// Parse splits src into logical lines and groups them into a statement
// tree (spec.md §4.5 block grouping).
func Parse(src string, brackets []*operator.Bracket) ([]*Node, error) {
	lines := splitLines(src, brackets)
	return buildTree(lines, brackets)
}

func buildTree(lines []Line, brackets []*operator.Bracket) ([]*Node, error) {
	var nodes []*Node
	i := 0
	for i < len(lines) {
		header := lines[i]
		bodyStart := i + 1
		bodyEnd := bodyStart
		for bodyEnd < len(lines) && lines[bodyEnd].Indent > header.Indent {
			bodyEnd++
		}
		clauseNodes := parseHeaderLine(header, brackets)
		if bodyEnd > bodyStart {
			children, err := buildTree(lines[bodyStart:bodyEnd], brackets)
			if err != nil {
				return nil, err
			}
			last := clauseNodes[len(clauseNodes)-1]
			last.Body = append(last.Body, children...)
		}
		nodes = append(nodes, clauseNodes...)
		i = bodyEnd
	}
	return attachClauses(nodes), nil
}

// attachClauses folds aux-keyword nodes (elif/else/catch/finally/case)
// into the Clauses list of the nearest preceding main node.
func attachClauses(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if !n.IsStmt && auxKeywords[n.Keyword] && len(out) > 0 {
			out[len(out)-1].Clauses = append(out[len(out)-1].Clauses, n)
			continue
		}
		out = append(out, n)
	}
	return out
}

// parseHeaderLine explodes one logical line into one or more clause
// nodes: a single physical line may pack a whole chain inline, e.g.
// `try: x := 1/0 catch e: e`.
func parseHeaderLine(line Line, brackets []*operator.Bracket) []*Node {
	clauseTexts := splitInlineClauses(line.Text, brackets)
	nodes := make([]*Node, 0, len(clauseTexts))
	for _, ct := range clauseTexts {
		mods, kw, isKw, rest := splitKeyword(ct)
		n := &Node{Mods: mods, Indent: line.Indent, Line: line.LineNo}
		if !isKw {
			n.IsStmt = true
			n.Header = ct
			nodes = append(nodes, n)
			continue
		}
		n.Keyword = kw
		if blockLevel[kw] || auxKeywords[kw] {
			head, inline, hasInline := splitTopLevelColon(rest, brackets)
			n.Header = strings.TrimSpace(head)
			if hasInline {
				n.Body = inlineBody(inline, line.Indent+1, line.LineNo, brackets)
			}
		} else {
			n.Header = strings.TrimSpace(rest)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// splitInlineClauses breaks a logical line into clause segments at every
// top-level occurrence of an aux keyword, so a fully inline try/catch or
// if/else chain parses the same way a block-form one does.
func splitInlineClauses(text string, brackets []*operator.Bracket) []string {
	var clauses []string
	start := 0
	i := 0
	for i < len(text) {
		if text[i] == '\\' && i+1 < len(text) {
			i += 2
			continue
		}
		if br, ok := operator.FindOpen(brackets, text, i); ok {
			close := operator.MatchClose(brackets, br, text, i+len(br.Open))
			if close < 0 {
				break
			}
			i = close + len(br.Close)
			continue
		}
		if i > start {
			if w, ok := auxKeywordAt(text, i); ok {
				clauses = append(clauses, strings.TrimSpace(text[start:i]))
				start = i
				i += len(w)
				continue
			}
		}
		i++
	}
	clauses = append(clauses, strings.TrimSpace(text[start:]))
	return clauses
}

func auxKeywordAt(text string, pos int) (string, bool) {
	for kw := range auxKeywords {
		w := string(kw)
		if wordAt(text, pos, w) {
			return w, true
		}
	}
	return "", false
}

// inlineBody parses an inline clause body (text following a header's
// top-level ':') as one or more semicolon-separated statements.
func inlineBody(text string, indent, lineNo int, brackets []*operator.Bracket) []*Node {
	parts := splitTopLevelSemicolon(text, brackets)
	out := make([]*Node, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		mods, kw, isKw, rest := splitKeyword(p)
		n := &Node{Indent: indent, Line: lineNo, Mods: mods}
		if isKw && !blockLevel[kw] && !auxKeywords[kw] {
			n.Keyword = kw
			n.Header = strings.TrimSpace(rest)
		} else {
			n.IsStmt = true
			n.Header = p
		}
		out = append(out, n)
	}
	return out
}
