package repo

import (
	"context"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

// Row maps column names to values. Integer values are normalised to int64.
type Row map[string]any

// Int64 reads column as an int64, reporting false when absent or NULL.
func (r Row) Int64(column string) (int64, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return 0, false
	}
	n, ok := Normalize(v).(int64)
	return n, ok
}

func (r Row) String(column string) string {
	s, _ := r[column].(string)
	return s
}

// TableStore is the minimal relational surface the dispatch modules need.
// Where clauses are conjunctions of column equalities; an empty where
// matches every row.
type TableStore interface {
	Insert(ctx context.Context, table string, row Row) error
	// InsertReturning inserts row and returns the value generated for column.
	InsertReturning(ctx context.Context, table string, row Row, column string) (int64, error)
	Select(ctx context.Context, table string, columns []string, where Row) ([]Row, error)
	Delete(ctx context.Context, table string, where Row) (int64, error)
}

var (
	ErrUniqueViolation     = serrors.Conflict("UNIQUE_VIOLATION", "unique constraint violated")
	ErrForeignKeyViolation = serrors.Conflict("FOREIGN_KEY_VIOLATION", "foreign key constraint violated")
)

// Normalize widens every Go integer type to int64 so rows compare equal
// regardless of which store produced them.
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	default:
		return v
	}
}
