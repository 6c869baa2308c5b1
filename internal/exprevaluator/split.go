package exprevaluator

import "cantus/internal/operator"

// splitTopLevel splits s on single-byte separator sep, skipping any span
// covered by a registered bracket (so `[1,2],[3,4]` splits into two
// matrix rows, not four scalars).
func splitTopLevel(s string, sep byte, brackets []*operator.Bracket) []string {
	var parts []string
	start := 0
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if br, ok := operator.FindOpen(brackets, s, i); ok {
			close := operator.MatchClose(brackets, br, s, i+len(br.Open))
			if close >= 0 {
				i = close + len(br.Close)
				continue
			}
		}
		if s[i] == sep {
			parts = append(parts, s[start:i])
			i++
			start = i
			continue
		}
		i++
	}
	parts = append(parts, s[start:])
	return trimAll(parts)
}

// splitOnceTopLevel is splitTopLevel but stops after the first match,
// returning (before, after, found) — used for `key:val` set entries.
func splitOnceTopLevel(s string, sep byte, brackets []*operator.Bracket) (string, string, bool) {
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if br, ok := operator.FindOpen(brackets, s, i); ok {
			close := operator.MatchClose(brackets, br, s, i+len(br.Open))
			if close >= 0 {
				i = close + len(br.Close)
				continue
			}
		}
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
		i++
	}
	return s, "", false
}

func trimAll(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = trimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
