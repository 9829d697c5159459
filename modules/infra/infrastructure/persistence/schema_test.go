package persistence_test

import (
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/migrations"
	"github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
)

var createTable = regexp.MustCompile(`CREATE TABLE "([A-Za-z]+)" \(`)

func TestSchema_MatchesMigration(t *testing.T) {
	raw, err := migrations.FS.ReadFile("00001_infra_schema.sql")
	require.NoError(t, err)
	up := string(raw)
	if idx := strings.Index(up, "-- +goose Down"); idx >= 0 {
		up = up[:idx]
	}

	var inSQL []string
	for _, m := range createTable.FindAllStringSubmatch(up, -1) {
		inSQL = append(inSQL, m[1])
	}
	var inGo []string
	for _, d := range persistence.Schema() {
		inGo = append(inGo, d.Name)
		for _, c := range d.Columns {
			assert.Contains(t, up, `"`+c+`"`, "column %s.%s missing from migration", d.Name, c)
		}
	}
	sort.Strings(inSQL)
	sort.Strings(inGo)
	assert.Equal(t, inSQL, inGo)
}
