package module

import (
	"os"
	"path/filepath"
	"testing"

	"cantus/internal/operator"
	"cantus/internal/scope"
	"cantus/internal/statement"
)

func newTestEngine() *statement.Engine {
	return statement.New(operator.Default(), nil)
}

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name+Ext)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRunsScriptOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "greeter", "greeting := \"hi\"\n")

	eng := newTestEngine()
	l := New()
	l.Engine = eng

	scopeName, err := l.Load(path, scope.Root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if scopeName == "" {
		t.Fatal("Load returned an empty scope name")
	}

	scopeName2, err := l.Load(path, scope.Root)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if scopeName2 != scopeName {
		t.Errorf("repeated Load returned a different scope name: %q vs %q", scopeName2, scopeName)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	eng := newTestEngine()
	l := New()
	l.Engine = eng

	if _, err := l.Load(filepath.Join(dir, "nope"), scope.Root); err == nil {
		t.Error("expected Load of a nonexistent module to error")
	}
}

func TestLoadWithoutEngineErrors(t *testing.T) {
	l := New()
	if _, err := l.Load("anything", scope.Root); err == nil {
		t.Error("expected Load with no Engine wired in to error")
	}
}

func TestAddSearchPathResolvesBareName(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "helpers", "x := 1\n")

	eng := newTestEngine()
	l := New()
	l.Engine = eng
	l.AddSearchPath(dir)

	if _, err := l.Load("helpers", scope.Root); err != nil {
		t.Fatalf("Load via search path: %v", err)
	}
}
