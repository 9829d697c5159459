package repo

// ForeignKey declares that Column references RefTable.RefColumn. Referenced
// rows cannot be deleted while referencing rows exist (NO ACTION).
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// TableDef describes one relational table. Serial names the generated
// identity column, if any.
type TableDef struct {
	Name        string
	Columns     []string
	Serial      string
	PrimaryKey  []string
	Unique      [][]string
	ForeignKeys []ForeignKey
}

func (d TableDef) HasColumn(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}
