// Package db registers db_connect/db_query/db_execute/db_close builtins
// backed by database/sql, wiring the same four drivers the teacher wires
// in internal/database/database.go (SPEC_FULL.md §1.2): mysql, postgres,
// sqlite3, and sqlserver. Query results are marshalled into a Cantus
// LinkedList holding one Set per row (column name -> cell).
package db

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"cantus/internal/cantuserr"
	"cantus/internal/decimal"
	"cantus/internal/value"
)

// Module holds the live, named connections a script opened via
// db_connect, keyed by the handle name the script chose.
type Module struct {
	mu    sync.Mutex
	conns map[string]*sql.DB
}

// New builds an empty Module with no open connections.
func New() *Module {
	return &Module{conns: make(map[string]*sql.DB)}
}

func textArg(args []value.Value, i int) (string, error) {
	if i >= len(args) {
		return "", cantuserr.Evalf(0, "missing text argument %d", i)
	}
	t, ok := value.Unwrap(args[i]).(*value.Text)
	if !ok {
		return "", cantuserr.Evalf(0, "argument %d must be Text", i)
	}
	return t.S, nil
}

// Connect opens (driver, dsn) and stores it under handle, matching the
// teacher's DBConnection registration by an ID string.
func (m *Module) Connect(args []value.Value) (value.Value, error) {
	handle, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	driver, err := textArg(args, 1)
	if err != nil {
		return nil, err
	}
	dsn, err := textArg(args, 2)
	if err != nil {
		return nil, err
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, cantuserr.Evalf(0, "db_connect: %v", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, cantuserr.Evalf(0, "db_connect: %v", err)
	}
	m.mu.Lock()
	m.conns[handle] = conn
	m.mu.Unlock()
	return value.NewBoolean(true), nil
}

func (m *Module) get(handle string) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.conns[handle]
	if !ok {
		return nil, cantuserr.Evalf(0, "db handle %q is not open", handle)
	}
	return conn, nil
}

// Query runs a SELECT and returns a LinkedList of row Sets
// (column name -> cell Value).
func (m *Module) Query(args []value.Value) (value.Value, error) {
	handle, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	query, err := textArg(args, 1)
	if err != nil {
		return nil, err
	}
	conn, err := m.get(handle)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(query)
	if err != nil {
		return nil, cantuserr.Evalf(0, "db_query: %v", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, cantuserr.Evalf(0, "db_query: %v", err)
	}
	var out []value.Value
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, cantuserr.Evalf(0, "db_query: %v", err)
		}
		rowSet := value.NewSet()
		for i, col := range cols {
			rowSet.Entries = append(rowSet.Entries, value.SetEntry{
				Key: value.NewText(col),
				Val: cellToValue(raw[i]),
			})
		}
		out = append(out, rowSet)
	}
	return value.NewLinkedListFrom(out), nil
}

// Execute runs an INSERT/UPDATE/DELETE and returns the affected row count.
func (m *Module) Execute(args []value.Value) (value.Value, error) {
	handle, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	stmt, err := textArg(args, 1)
	if err != nil {
		return nil, err
	}
	conn, err := m.get(handle)
	if err != nil {
		return nil, err
	}
	res, err := conn.Exec(stmt)
	if err != nil {
		return nil, cantuserr.Evalf(0, "db_execute: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, cantuserr.Evalf(0, "db_execute: %v", err)
	}
	return value.NewNumber(decimal.FromInt64(n)), nil
}

// Close closes and forgets handle.
func (m *Module) Close(args []value.Value) (value.Value, error) {
	handle, err := textArg(args, 0)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.conns[handle]
	if !ok {
		return value.NewBoolean(false), nil
	}
	delete(m.conns, handle)
	if err := conn.Close(); err != nil {
		return nil, cantuserr.Evalf(0, "db_close: %v", err)
	}
	return value.NewBoolean(true), nil
}

func cellToValue(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.NewNumber(decimal.Undef())
	case []byte:
		return value.NewText(string(v))
	case string:
		return value.NewText(v)
	case int64:
		return value.NewNumber(decimal.FromInt64(v))
	case float64:
		return value.NewNumber(decimal.FromFloat64(v))
	case bool:
		return value.NewBoolean(v)
	default:
		return value.NewText(fmt.Sprintf("%v", v))
	}
}
