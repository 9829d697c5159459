package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iota-uz/railway-dispatch/pkg/repo"
)

func TestInsert_QuotesMixedCaseNames(t *testing.T) {
	q := repo.Insert("TBlocks", []string{"Bl_Title", "Bl_StationID1"}, "Bl_ID")
	assert.Equal(t, `INSERT INTO "TBlocks" ("Bl_Title", "Bl_StationID1") VALUES ($1, $2) RETURNING "Bl_ID"`, q)
}

func TestEqualities_SortedAndOffset(t *testing.T) {
	exprs, args := repo.Equalities(repo.Row{"b": 2, "a": "x"}, 1)
	assert.Equal(t, []string{`"a" = $2`, `"b" = $3`}, exprs)
	assert.Equal(t, []any{"x", 2}, args)
}

func TestEqualities_NilIsNull(t *testing.T) {
	exprs, args := repo.Equalities(repo.Row{"a": nil, "b": 1, "c": 2}, 0)
	assert.Equal(t, []string{`"a" IS NULL`, `"b" = $1`, `"c" = $2`}, exprs)
	assert.Equal(t, []any{1, 2}, args)
}

func TestJoin_SkipsEmptyParts(t *testing.T) {
	assert.Equal(t, `DELETE FROM "T"`, repo.Join("DELETE FROM", `"T"`, repo.JoinWhere()))
	assert.Equal(t, "WHERE a AND b", repo.JoinWhere("a", "b"))
}

func TestRow_Int64Normalizes(t *testing.T) {
	r := repo.Row{"a": int32(7), "b": nil}
	n, ok := r.Int64("a")
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)
	_, ok = r.Int64("b")
	assert.False(t, ok)
	_, ok = r.Int64("missing")
	assert.False(t, ok)
}
