// Package node declares the deletion dependency graph of infrastructure
// entities.
//
// Each Node lists the rows that reference it, in the order they have to be
// removed. A Dependent with a Child type is removed through that child's own
// cascade; without one its rows are deleted directly. The graph must be a
// DAG over Child edges.
package node

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

type Type string

const (
	Station          Type = "station"
	StationWorkPlace Type = "station_work_place"
	Block            Type = "block"
	DncSector        Type = "dnc_sector"
	DncTrainSector   Type = "dnc_train_sector"
	EcdSector        Type = "ecd_sector"
	EcdTrainSector   Type = "ecd_train_sector"
	// UserWorkPoligons has no owning row; deleting it removes a user's
	// assignment junctions only.
	UserWorkPoligons Type = "user_work_poligons"
)

var ErrUnknownType = serrors.Validation("UNKNOWN_NODE_TYPE", "unknown infrastructure node type")

type Dependent struct {
	Table  string
	Column string
	Child  Type
}

type Node struct {
	Type       Type
	Table      string
	Key        string
	Dependents []Dependent
}

// Rootless reports whether the node owns no row of its own.
func (n Node) Rootless() bool {
	return n.Table == ""
}

type Graph struct {
	nodes map[Type]Node
}

// NewGraph validates nodes and returns the graph. Child references must
// resolve, child dependents must point at the child's own table, and the
// child edges must not form a cycle.
func NewGraph(nodes ...Node) (*Graph, error) {
	g := &Graph{nodes: make(map[Type]Node, len(nodes))}
	for _, n := range nodes {
		if _, dup := g.nodes[n.Type]; dup {
			return nil, fmt.Errorf("node %s declared twice", n.Type)
		}
		if !n.Rootless() && n.Key == "" {
			return nil, fmt.Errorf("node %s: table %s has no key column", n.Type, n.Table)
		}
		g.nodes[n.Type] = n
	}
	for _, n := range nodes {
		for _, d := range n.Dependents {
			if d.Child == "" {
				continue
			}
			child, ok := g.nodes[d.Child]
			if !ok {
				return nil, fmt.Errorf("node %s: unknown child %s", n.Type, d.Child)
			}
			if child.Rootless() {
				return nil, fmt.Errorf("node %s: child %s has no table", n.Type, d.Child)
			}
			if d.Table != child.Table {
				return nil, fmt.Errorf("node %s: dependent table %s does not match child %s table %s",
					n.Type, d.Table, d.Child, child.Table)
			}
		}
	}
	if cycle := g.findCycle(); cycle != nil {
		return nil, fmt.Errorf("cascade graph has a cycle: %s", strings.Join(cycle, " -> "))
	}
	return g, nil
}

func MustGraph(nodes ...Node) *Graph {
	g, err := NewGraph(nodes...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) Node(t Type) (Node, error) {
	n, ok := g.nodes[t]
	if !ok {
		return Node{}, ErrUnknownType.WithMeta("type", string(t))
	}
	return n, nil
}

func (g *Graph) Types() []Type {
	out := make([]Type, 0, len(g.nodes))
	for t := range g.nodes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

const (
	white = iota
	grey
	black
)

func (g *Graph) findCycle() []string {
	color := make(map[Type]int, len(g.nodes))
	var path []string
	var visit func(t Type) []string
	visit = func(t Type) []string {
		color[t] = grey
		path = append(path, string(t))
		for _, d := range g.nodes[t].Dependents {
			if d.Child == "" {
				continue
			}
			switch color[d.Child] {
			case grey:
				return append(append([]string(nil), path...), string(d.Child))
			case white:
				if c := visit(d.Child); c != nil {
					return c
				}
			}
		}
		path = path[:len(path)-1]
		color[t] = black
		return nil
	}
	for _, t := range g.Types() {
		if color[t] == white {
			if c := visit(t); c != nil {
				return c
			}
		}
	}
	return nil
}
