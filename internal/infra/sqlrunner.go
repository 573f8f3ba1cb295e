package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor is what repositories need from the database.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

var (
	ErrMissingMarker = errors.New("sql marker missing or invalid")

	auditMarker = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)
)

// SQLRunner executes inline queries. Every query must open with a
// "--sql <uuid>" line; the uuid tags the debug log and is stripped before the
// statement reaches postgres. Slow statements are logged at warn level.
type SQLRunner struct {
	Pool          *pgxpool.Pool
	Logger        zerolog.Logger
	SlowThreshold time.Duration
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger, SlowThreshold: 500 * time.Millisecond}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, stmt, err := splitMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := r.Pool.Exec(ctx, stmt, args...)
	r.trace(marker, "exec", start, err).Int64("rows", tag.RowsAffected()).Send()
	return tag, err
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, stmt, err := splitMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	return &tracedRow{row: r.Pool.QueryRow(ctx, stmt, args...), runner: r, marker: marker, start: time.Now()}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, stmt, err := splitMarker(query)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.Pool.Query(ctx, stmt, args...)
	if err != nil {
		r.trace(marker, "query", start, err).Send()
		return nil, err
	}
	return &tracedRows{Rows: rows, runner: r, marker: marker, start: start}, nil
}

// trace picks the event level from the outcome and elapsed time.
func (r *SQLRunner) trace(marker, op string, start time.Time, err error) *zerolog.Event {
	elapsed := time.Since(start)
	var ev *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		ev = r.Logger.Error().Err(err)
	case r.SlowThreshold > 0 && elapsed >= r.SlowThreshold:
		ev = r.Logger.Warn().Bool("slow", true)
	default:
		ev = r.Logger.Debug()
	}
	return ev.Str("sql", marker).Str("op", op).Dur("elapsed", elapsed)
}

type tracedRow struct {
	row    pgx.Row
	runner *SQLRunner
	marker string
	start  time.Time
}

func (t *tracedRow) Scan(dest ...any) error {
	err := t.row.Scan(dest...)
	t.runner.trace(t.marker, "query_row", t.start, err).Send()
	return err
}

type tracedRows struct {
	pgx.Rows
	runner *SQLRunner
	marker string
	start  time.Time
	closed bool
}

func (t *tracedRows) Close() {
	t.Rows.Close()
	if t.closed {
		return
	}
	t.closed = true
	t.runner.trace(t.marker, "query", t.start, t.Rows.Err()).Send()
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(...any) error {
	return e.err
}

// splitMarker returns the audit uuid and the statement without its marker line.
func splitMarker(query string) (string, string, error) {
	head, rest, _ := strings.Cut(strings.TrimSpace(query), "\n")
	m := auditMarker.FindStringSubmatch(strings.TrimSpace(head))
	if m == nil {
		return "", "", ErrMissingMarker
	}
	stmt := strings.TrimSpace(rest)
	if stmt == "" {
		return "", "", errors.New("empty statement after sql marker")
	}
	return m[1], stmt, nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
