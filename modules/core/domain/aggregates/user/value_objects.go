package user

import (
	"slices"
	"strings"
)

// CredentialSet is an order-independent set of permission names. The zero
// value is the empty set.
type CredentialSet []string

// NewCredentialSet trims, deduplicates and sorts names. Blank names are
// dropped.
func NewCredentialSet(names ...string) CredentialSet {
	out := make(CredentialSet, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Equal is exact set equality: neither a subset nor a superset matches.
func (c CredentialSet) Equal(o CredentialSet) bool {
	a, b := NewCredentialSet(c...), NewCredentialSet(o...)
	return slices.Equal(a, b)
}

func (c CredentialSet) Contains(name string) bool {
	return slices.Contains(c, name)
}

// Missing returns the names of c that held does not contain.
func (c CredentialSet) Missing(held CredentialSet) []string {
	var missing []string
	for _, n := range c {
		if !held.Contains(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

func (c CredentialSet) Key() string {
	return strings.Join(NewCredentialSet(c...), ",")
}
