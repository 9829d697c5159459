package services

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/node"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/repo"
)

// CascadeEngine deletes a node and everything that depends on it, walking
// the graph depth-first so children go before parents. It never opens a
// transaction; callers decide the transactional scope through ctx.
type CascadeEngine struct {
	graph *node.Graph
	store repo.TableStore
}

func NewCascadeEngine(graph *node.Graph, store repo.TableStore) *CascadeEngine {
	return &CascadeEngine{graph: graph, store: store}
}

func (e *CascadeEngine) Graph() *node.Graph {
	return e.graph
}

// DeleteSubtree returns the number of root rows removed, 0 when the root did
// not exist. For a rootless node it returns the number of dependent rows
// removed.
func (e *CascadeEngine) DeleteSubtree(ctx context.Context, t node.Type, id any) (int64, error) {
	roots, total, err := e.deleteSubtree(ctx, t, id)
	if err != nil {
		return 0, err
	}
	metricsSingleton().cascadeRows.WithLabelValues(string(t)).Add(float64(total))
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"node-type": t,
		"node-id":   id,
		"roots":     roots,
		"rows":      total,
	}).Debug("cascade delete finished")
	return roots, nil
}

func (e *CascadeEngine) deleteSubtree(ctx context.Context, t node.Type, id any) (roots, total int64, err error) {
	n, err := e.graph.Node(t)
	if err != nil {
		return 0, 0, err
	}

	for _, d := range n.Dependents {
		if d.Child == "" {
			deleted, err := e.store.Delete(ctx, d.Table, repo.Row{d.Column: id})
			if err != nil {
				return 0, 0, errors.Wrapf(err, "cascade %s %v: delete %s by %s", t, id, d.Table, d.Column)
			}
			total += deleted
			continue
		}

		child, err := e.graph.Node(d.Child)
		if err != nil {
			return 0, 0, err
		}
		rows, err := e.store.Select(ctx, child.Table, []string{child.Key}, repo.Row{d.Column: id})
		if err != nil {
			return 0, 0, errors.Wrapf(err, "cascade %s %v: select %s by %s", t, id, child.Table, d.Column)
		}
		for _, row := range rows {
			_, sub, err := e.deleteSubtree(ctx, d.Child, row[child.Key])
			if err != nil {
				return 0, 0, err
			}
			total += sub
		}
	}

	if n.Rootless() {
		return total, total, nil
	}
	deleted, err := e.store.Delete(ctx, n.Table, repo.Row{n.Key: id})
	if err != nil {
		return 0, 0, errors.Wrapf(err, "cascade %s %v: delete root", t, id)
	}
	if deleted > 1 {
		return 0, 0, fmt.Errorf("cascade %s %v: deleted %d rows by key", t, id, deleted)
	}
	return deleted, total + deleted, nil
}
