package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type call struct {
	query string
	args  []any
}

// scriptedExecutor replays rows in order and records every statement.
type scriptedExecutor struct {
	rows    []pgx.Row
	sets    [][][]any
	tags    []pgconn.CommandTag
	execErr error
	calls   []call
	rowIdx  int
	setIdx  int
	tagIdx  int
}

func (s *scriptedExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	if s.execErr != nil {
		return pgconn.CommandTag{}, s.execErr
	}
	if s.tagIdx >= len(s.tags) {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	tag := s.tags[s.tagIdx]
	s.tagIdx++
	return tag, nil
}

func (s *scriptedExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, call{query: query, args: args})
	if s.rowIdx >= len(s.rows) {
		return simpleRow{}
	}
	row := s.rows[s.rowIdx]
	s.rowIdx++
	return row
}

func (s *scriptedExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	if s.setIdx >= len(s.sets) {
		return &valueRows{}, nil
	}
	set := s.sets[s.setIdx]
	s.setIdx++
	return &valueRows{values: set, idx: -1}, nil
}

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

func valuesRow(values ...any) simpleRow {
	return simpleRow{scan: func(dest ...any) error { return assign(dest, values) }}
}

func errRow(err error) simpleRow {
	return simpleRow{scan: func(...any) error { return err }}
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

type valueRows struct {
	testRowsBase
	values [][]any
	idx    int
	closed bool
}

func (r *valueRows) Next() bool {
	if r.values == nil {
		return false
	}
	r.idx++
	return r.idx < len(r.values)
}

func (r *valueRows) Scan(dest ...any) error { return assign(dest, r.values[r.idx]) }

func (r *valueRows) Err() error { return nil }

func (r *valueRows) Close() { r.closed = true }

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = values[i].(string)
		case *int:
			*p = values[i].(int)
		case *int64:
			*p = values[i].(int64)
		case *float64:
			*p = values[i].(float64)
		case *time.Time:
			*p = values[i].(time.Time)
		case *[]byte:
			*p = values[i].([]byte)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}
