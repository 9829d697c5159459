package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Quote returns name as a quoted SQL identifier. Table and column names in
// the dispatch schema are mixed case, so every reference goes through here.
func Quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func QuoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Quote(n)
	}
	return out
}

// Join concatenates non-empty parts with a single space.
func Join(parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			filtered = append(filtered, p)
		}
	}
	return strings.Join(filtered, " ")
}

// JoinWhere renders "WHERE a AND b ..." or an empty string.
func JoinWhere(expressions ...string) string {
	if len(expressions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(expressions, " AND ")
}

// Insert builds a parameterised INSERT for table and fields. Names are quoted.
func Insert(table string, fields []string, returning ...string) string {
	placeholders := make([]string, len(fields))
	for i := range fields {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		Quote(table),
		strings.Join(QuoteAll(fields), ", "),
		strings.Join(placeholders, ", "),
	)
	if len(returning) > 0 {
		q += " RETURNING " + strings.Join(QuoteAll(returning), ", ")
	}
	return q
}

// Equalities renders where as sorted "col" = $n expressions starting at
// offset+1, together with the matching argument list. Nil values render as
// IS NULL and take no argument.
func Equalities(where Row, offset int) ([]string, []any) {
	keys := where.Keys()
	exprs := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		if where[k] == nil {
			exprs = append(exprs, fmt.Sprintf("%s IS NULL", Quote(k)))
			continue
		}
		args = append(args, where[k])
		exprs = append(exprs, fmt.Sprintf("%s = $%d", Quote(k), offset+len(args)))
	}
	return exprs, args
}

// Keys returns the row's column names in sorted order.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
