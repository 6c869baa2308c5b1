package db

import (
	"testing"

	"cantus/internal/value"
)

func text(s string) value.Value { return value.NewText(s) }

func TestConnectQueryExecuteClose(t *testing.T) {
	m := New()

	connected, err := m.Connect([]value.Value{text("main"), text("sqlite3"), text(":memory:")})
	if err != nil {
		t.Fatalf("db_connect: %v", err)
	}
	if !value.Unwrap(connected).(*value.Boolean).B {
		t.Fatal("db_connect returned false")
	}

	if _, err := m.Execute([]value.Value{text("main"), text("CREATE TABLE widgets (id INTEGER, name TEXT)")}); err != nil {
		t.Fatalf("create table: %v", err)
	}

	affected, err := m.Execute([]value.Value{text("main"), text("INSERT INTO widgets (id, name) VALUES (1, 'gear')")})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n, ok := value.Unwrap(affected).(*value.Number); !ok || n.D.Float64() != 1 {
		t.Errorf("rows affected = %v, want 1", affected.Display())
	}

	rows, err := m.Query([]value.Value{text("main"), text("SELECT id, name FROM widgets")})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	list, ok := value.Unwrap(rows).(*value.LinkedList)
	if !ok || list.Len() != 1 {
		t.Fatalf("query returned %v, want a 1-row LinkedList", rows.Display())
	}
	row, ok := value.Unwrap(list.ToSlice()[0]).(*value.Set)
	if !ok {
		t.Fatalf("row is %T, want *value.Set", list.ToSlice()[0])
	}
	foundName := false
	for _, entry := range row.Entries {
		if value.Unwrap(entry.Key).(*value.Text).S == "name" {
			if value.Unwrap(entry.Val).(*value.Text).S != "gear" {
				t.Errorf("name cell = %v, want gear", entry.Val.Display())
			}
			foundName = true
		}
	}
	if !foundName {
		t.Error("row missing the 'name' column")
	}

	closed, err := m.Close([]value.Value{text("main")})
	if err != nil {
		t.Fatalf("db_close: %v", err)
	}
	if !value.Unwrap(closed).(*value.Boolean).B {
		t.Error("db_close returned false for an open handle")
	}

	if _, err := m.Query([]value.Value{text("main"), text("SELECT 1")}); err == nil {
		t.Error("expected query against a closed handle to error")
	}
}

func TestCloseUnknownHandleReturnsFalse(t *testing.T) {
	m := New()
	result, err := m.Close([]value.Value{text("never-opened")})
	if err != nil {
		t.Fatal(err)
	}
	if value.Unwrap(result).(*value.Boolean).B {
		t.Error("db_close on an unknown handle returned true")
	}
}

func TestQueryUnknownHandleErrors(t *testing.T) {
	m := New()
	if _, err := m.Query([]value.Value{text("missing"), text("SELECT 1")}); err == nil {
		t.Error("expected db_query against an unopened handle to error")
	}
}
