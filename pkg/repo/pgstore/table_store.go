// Package pgstore implements repo.TableStore on top of pgx, using whatever
// transaction or pool the context carries.
package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/repo"
)

type TableStore struct{}

func New() *TableStore {
	return &TableStore{}
}

var _ repo.TableStore = (*TableStore)(nil)

func (s *TableStore) Insert(ctx context.Context, table string, row repo.Row) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	fields := row.Keys()
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = row[f]
	}
	if _, err := tx.Exec(ctx, repo.Insert(table, fields), args...); err != nil {
		return repo.MapPgError(errors.Wrapf(err, "insert %s", table))
	}
	return nil
}

func (s *TableStore) InsertReturning(ctx context.Context, table string, row repo.Row, column string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	fields := row.Keys()
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = row[f]
	}
	var id int64
	if err := tx.QueryRow(ctx, repo.Insert(table, fields, column), args...).Scan(&id); err != nil {
		return 0, repo.MapPgError(errors.Wrapf(err, "insert %s", table))
	}
	return id, nil
}

func (s *TableStore) Select(ctx context.Context, table string, columns []string, where repo.Row) ([]repo.Row, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	exprs, args := repo.Equalities(where, 0)
	query := repo.Join(
		"SELECT", strings.Join(repo.QuoteAll(columns), ", "),
		"FROM", repo.Quote(table),
		repo.JoinWhere(exprs...),
		"ORDER BY", repo.Quote(columns[0]),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, repo.MapPgError(errors.Wrapf(err, "select %s", table))
	}
	defer rows.Close()

	var out []repo.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, repo.MapPgError(errors.Wrapf(err, "scan %s", table))
		}
		if len(values) != len(columns) {
			return nil, fmt.Errorf("select %s: got %d values for %d columns", table, len(values), len(columns))
		}
		r := make(repo.Row, len(columns))
		for i, c := range columns {
			r[c] = repo.Normalize(values[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.MapPgError(errors.Wrapf(err, "select %s", table))
	}
	return out, nil
}

func (s *TableStore) Delete(ctx context.Context, table string, where repo.Row) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	exprs, args := repo.Equalities(where, 0)
	tag, err := tx.Exec(ctx, repo.Join("DELETE FROM", repo.Quote(table), repo.JoinWhere(exprs...)), args...)
	if err != nil {
		return 0, repo.MapPgError(errors.Wrapf(err, "delete from %s", table))
	}
	return tag.RowsAffected(), nil
}
