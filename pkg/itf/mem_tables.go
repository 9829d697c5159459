package itf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/iota-uz/railway-dispatch/pkg/repo"
)

// FailFunc is consulted before every mutation; a non-nil result aborts it.
type FailFunc func(op, table string) error

// MemTables is an in-memory repo.TableStore that enforces primary keys,
// unique constraints and NO ACTION foreign keys. InTx snapshots the data and
// restores it when fn fails, so it doubles as a composables.TxRunner.
type MemTables struct {
	mu      sync.Mutex
	defs    map[string]repo.TableDef
	rows    map[string][]repo.Row
	serials map[string]int64
	fail    FailFunc
}

var _ repo.TableStore = (*MemTables)(nil)

func NewMemTables(defs ...repo.TableDef) *MemTables {
	m := &MemTables{
		defs:    make(map[string]repo.TableDef, len(defs)),
		rows:    make(map[string][]repo.Row, len(defs)),
		serials: make(map[string]int64),
	}
	for _, d := range defs {
		m.defs[d.Name] = d
	}
	return m
}

// FailWith installs f; pass nil to clear it.
func (m *MemTables) FailWith(f FailFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = f
}

func (m *MemTables) InTx(ctx context.Context, fn func(context.Context) error) error {
	snap := m.snapshot()
	if err := fn(ctx); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// Count returns the number of rows in table matching where.
func (m *MemTables) Count(table string, where repo.Row) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows[table] {
		if matches(r, where) {
			n++
		}
	}
	return n
}

// Total returns the number of rows across all tables.
func (m *MemTables) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rows := range m.rows {
		n += len(rows)
	}
	return n
}

func (m *MemTables) Insert(ctx context.Context, table string, row repo.Row) error {
	_, err := m.insert(table, row, "")
	return err
}

func (m *MemTables) InsertReturning(ctx context.Context, table string, row repo.Row, column string) (int64, error) {
	return m.insert(table, row, column)
}

func (m *MemTables) insert(table string, row repo.Row, returning string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	def, err := m.def(table)
	if err != nil {
		return 0, err
	}
	if err := m.check("insert", table); err != nil {
		return 0, err
	}

	r := make(repo.Row, len(def.Columns))
	for _, c := range def.Columns {
		r[c] = nil
	}
	for k, v := range row {
		if !def.HasColumn(k) {
			return 0, fmt.Errorf("insert %s: unknown column %q", table, k)
		}
		r[k] = repo.Normalize(v)
	}
	if def.Serial != "" && r[def.Serial] == nil {
		m.serials[table]++
		r[def.Serial] = m.serials[table]
	} else if def.Serial != "" {
		if n, ok := r.Int64(def.Serial); ok && n > m.serials[table] {
			m.serials[table] = n
		}
	}

	if len(def.PrimaryKey) > 0 {
		if m.exists(table, project(r, def.PrimaryKey)) {
			return 0, repo.ErrUniqueViolation.WithMeta("constraint", constraintName(table, "pkey", def.PrimaryKey))
		}
	}
	for _, cols := range def.Unique {
		if m.exists(table, project(r, cols)) {
			return 0, repo.ErrUniqueViolation.WithMeta("constraint", constraintName(table, "key", cols))
		}
	}
	for _, fk := range def.ForeignKeys {
		v := r[fk.Column]
		if v == nil {
			continue
		}
		if !m.exists(fk.RefTable, repo.Row{fk.RefColumn: v}) {
			return 0, repo.ErrForeignKeyViolation.WithMeta("constraint", constraintName(table, "fkey", []string{fk.Column}))
		}
	}

	m.rows[table] = append(m.rows[table], r)
	if returning == "" {
		return 0, nil
	}
	n, _ := r.Int64(returning)
	return n, nil
}

func (m *MemTables) Select(ctx context.Context, table string, columns []string, where repo.Row) ([]repo.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	def, err := m.def(table)
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		if !def.HasColumn(c) {
			return nil, fmt.Errorf("select %s: unknown column %q", table, c)
		}
	}
	var out []repo.Row
	for _, r := range m.rows[table] {
		if matches(r, where) {
			out = append(out, project(r, columns))
		}
	}
	if len(columns) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i][columns[0]], out[j][columns[0]])
		})
	}
	return out, nil
}

func (m *MemTables) Delete(ctx context.Context, table string, where repo.Row) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.def(table); err != nil {
		return 0, err
	}
	if err := m.check("delete", table); err != nil {
		return 0, err
	}

	var kept, removed []repo.Row
	for _, r := range m.rows[table] {
		if matches(r, where) {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	for _, r := range removed {
		if err := m.referenced(table, r); err != nil {
			return 0, err
		}
	}
	m.rows[table] = kept
	return int64(len(removed)), nil
}

// referenced fails when any other table still points at r.
func (m *MemTables) referenced(table string, r repo.Row) error {
	for _, child := range m.defs {
		for _, fk := range child.ForeignKeys {
			if fk.RefTable != table {
				continue
			}
			v := r[fk.RefColumn]
			if v == nil {
				continue
			}
			if m.exists(child.Name, repo.Row{fk.Column: v}) {
				return repo.ErrForeignKeyViolation.WithMeta("constraint", constraintName(child.Name, "fkey", []string{fk.Column}))
			}
		}
	}
	return nil
}

func (m *MemTables) def(table string) (repo.TableDef, error) {
	def, ok := m.defs[table]
	if !ok {
		return repo.TableDef{}, fmt.Errorf("unknown table %q", table)
	}
	return def, nil
}

func (m *MemTables) check(op, table string) error {
	if m.fail == nil {
		return nil
	}
	return m.fail(op, table)
}

func (m *MemTables) exists(table string, where repo.Row) bool {
	for _, r := range m.rows[table] {
		if matches(r, where) {
			return true
		}
	}
	return false
}

type memSnapshot struct {
	rows    map[string][]repo.Row
	serials map[string]int64
}

func (m *MemTables) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := memSnapshot{
		rows:    make(map[string][]repo.Row, len(m.rows)),
		serials: make(map[string]int64, len(m.serials)),
	}
	for t, rows := range m.rows {
		s.rows[t] = append([]repo.Row(nil), rows...)
	}
	for t, n := range m.serials {
		s.serials[t] = n
	}
	return s
}

func (m *MemTables) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = s.rows
	m.serials = s.serials
}

func matches(r, where repo.Row) bool {
	for k, v := range where {
		if r[k] != repo.Normalize(v) {
			return false
		}
	}
	return true
}

// less orders like ORDER BY on the first selected column, NULLs last.
func less(a, b any) bool {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		return !ok || av < bv
	case string:
		bv, ok := b.(string)
		return !ok || av < bv
	default:
		return false
	}
}

func project(r repo.Row, columns []string) repo.Row {
	out := make(repo.Row, len(columns))
	for _, c := range columns {
		out[c] = r[c]
	}
	return out
}

func constraintName(table, suffix string, cols []string) string {
	return fmt.Sprintf("%s_%s_%s", table, strings.Join(cols, "_"), suffix)
}
