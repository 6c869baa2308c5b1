// Package module implements statement.Loader: resolving, caching, and
// running the scripts an `import`/`load` statement names (SPEC_FULL.md
// §6.1), grounded in the teacher's ModuleLoader
// (internal/vm/module_loader.go) — same cache-by-resolved-path and
// loading-set cycle detection, rebuilt around Cantus's scope-tree
// Engine instead of a bytecode VM.
package module

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cantus/internal/cantuserr"
	"cantus/internal/scope"
	"cantus/internal/statement"
)

// Ext is the canonical file extension for a loadable Cantus script.
const Ext = ".cantus"

// Loader resolves, runs, and caches external Cantus scripts named by
// `import`/`load`. It is wired to its owning Engine after both are
// constructed (internal/evaluator's facade setup does this), matching
// the teacher's ModuleLoader holding a back-reference to its parentVM.
type Loader struct {
	mu          sync.Mutex
	cache       map[string]string // resolved absolute path -> scope name
	loading     map[string]bool   // resolved absolute path -> in progress
	searchPaths []string

	// Engine is the root evaluator a loaded script runs against, in a
	// fresh child scope of its own. Set once by the facade before any
	// `import`/`load` fires.
	Engine *statement.Engine
}

// New builds a Loader with the default search path: the current
// directory, a `cantus_modules` sibling directory, then the user's
// package directory (SPEC_FULL.md §6.1).
func New() *Loader {
	home, _ := os.UserHomeDir()
	paths := []string{".", "cantus_modules"}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".cantus", "pkg"))
	}
	return &Loader{
		cache:       make(map[string]string),
		loading:     make(map[string]bool),
		searchPaths: paths,
	}
}

// AddSearchPath appends an additional directory to search.
func (l *Loader) AddSearchPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.searchPaths = append(l.searchPaths, path)
}

// Load resolves path, runs it (once) in a fresh child scope named
// after its base filename, and returns that scope name so the caller
// can import or discard it. Repeated Loads of the same resolved file
// are idempotent: later calls return the cached scope name without
// re-running the script.
func (l *Loader) Load(path, currentScope string) (string, error) {
	if l.Engine == nil {
		return "", cantuserr.Evalf(0, "module loader has no evaluator wired in")
	}
	resolved, err := l.resolvePath(path)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	if name, ok := l.cache[resolved]; ok {
		l.mu.Unlock()
		return name, nil
	}
	if l.loading[resolved] {
		l.mu.Unlock()
		return "", cantuserr.Evalf(0, "circular dependency loading %q", path)
	}
	l.loading[resolved] = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.loading, resolved)
		l.mu.Unlock()
	}()

	src, err := os.ReadFile(resolved)
	if err != nil {
		return "", cantuserr.Evalf(0, "failed to read module %q: %v", path, err)
	}

	scopeName := scope.Root + ".module_" + sanitizeName(resolved)
	child := l.Engine.Clone(&scope.Scope{Name: scopeName})
	if _, err := child.Run(string(src)); err != nil {
		return "", cantuserr.Evalf(0, "error running module %q: %v", path, err)
	}

	l.mu.Lock()
	l.cache[resolved] = scopeName
	l.mu.Unlock()
	return scopeName, nil
}

// resolvePath mirrors the teacher's resolvePath: absolute paths and
// explicit relative paths (./ or ../) resolve directly (relative ones
// against the working directory), everything else is searched across
// searchPaths in order.
func (l *Loader) resolvePath(path string) (string, error) {
	if !strings.HasSuffix(path, Ext) {
		path = path + Ext
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", cantuserr.Evalf(0, "cannot resolve module path %q: %v", path, err)
		}
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
		return "", cantuserr.Evalf(0, "module not found: %s (resolved to %s)", path, abs)
	}
	l.mu.Lock()
	paths := append([]string(nil), l.searchPaths...)
	l.mu.Unlock()
	for _, sp := range paths {
		candidate := filepath.Join(sp, path)
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
	}
	return "", cantuserr.Evalf(0, "module not found: %s (searched %v)", path, paths)
}

func sanitizeName(absPath string) string {
	base := strings.TrimSuffix(filepath.Base(absPath), Ext)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "mod"
	}
	return b.String()
}
