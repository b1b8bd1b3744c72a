package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes translated to repository errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// wrapErr maps driver errors onto repository sentinels, keeping op as context.
func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrInvalidReference)
		case pgCheckViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrInvalidValue)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// updateBuilder assembles the SET clause of a sparse UPDATE.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.setExpr(column, "%s", value)
}

// setExpr appends "column = expr" with %s in expr standing for the value's placeholder,
// e.g. "NULLIF(%s, '')::time".
func (b *updateBuilder) setExpr(column, expr string, value any) {
	b.args = append(b.args, value)
	placeholder := fmt.Sprintf("$%d", len(b.args))
	b.sets = append(b.sets, column+" = "+fmt.Sprintf(expr, placeholder))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build renders "UPDATE table SET ... WHERE id = $n". touch adds updated_at = NOW().
func (b *updateBuilder) build(table string, id int64, touch bool) (string, []any) {
	sets := b.sets
	if touch {
		sets = append(sets[:len(sets):len(sets)], "updated_at = NOW()")
	}
	args := append(b.args[:len(b.args):len(b.args)], id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args))
	return query, args
}

func execAffected(res sql.Result, err error, op string) (bool, error) {
	if err != nil {
		return false, wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableDate(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func encodeIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeIDs(raw []byte) ([]int64, error) {
	ids := []int64{}
	if len(raw) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
