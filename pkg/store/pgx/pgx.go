// Package pgx provides the Postgres-backed GraphStore. Node and edge
// identity lives in unique constraints, so concurrent upserts of the same
// entity converge on one row instead of racing a read-then-write.
package pgx

import (
	"context"
	"errors"
	"fmt"

	pgxdriver "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/store"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgxdriver.ErrNoRows)
}

type PgxGraphStore struct {
	pool *pgxpool.Pool
}

func NewPgxGraphStore(pool *pgxpool.Pool) *PgxGraphStore {
	return &PgxGraphStore{pool: pool}
}

func (s *PgxGraphStore) UpsertNode(ctx context.Context, params store.UpsertNodeParams) (string, error) {
	label := store.SanitizeLabel(params.Label)
	name := util.SanitizeUTF8(params.Name)
	layer := store.LabelLayer(label)

	id := params.ID
	if id == "" {
		id = util.NewID()
	}
	props := params.Properties
	if props == nil {
		props = map[string]any{}
	}

	// On conflict the incoming properties overlay the stored ones per key;
	// the existing row keeps its id.
	var resultID string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO graph_nodes (id, label, name, layer, properties)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (label, name) DO UPDATE
		SET properties = graph_nodes.properties || EXCLUDED.properties,
		    updated_at = now()
		RETURNING id`,
		id, label, name, string(layer), props,
	).Scan(&resultID)
	if err != nil {
		return "", fmt.Errorf("failed to upsert node %q: %w", name, err)
	}
	return resultID, nil
}

func (s *PgxGraphStore) UpsertEdge(ctx context.Context, params store.UpsertEdgeParams) (string, error) {
	relType := store.SanitizeRelationType(params.Type)
	props := params.Properties
	if props == nil {
		props = map[string]any{}
	}

	var resultID string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO graph_edges (id, source_id, target_id, rel_type, properties)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_id, target_id, rel_type) DO UPDATE
		SET properties = graph_edges.properties || EXCLUDED.properties,
		    updated_at = now()
		RETURNING id`,
		util.NewID(), params.SourceID, params.TargetID, relType, props,
	).Scan(&resultID)
	if err != nil {
		return "", fmt.Errorf("failed to upsert edge %s-[%s]->%s: %w", params.SourceID, relType, params.TargetID, err)
	}
	return resultID, nil
}

func (s *PgxGraphStore) FindNodeByName(ctx context.Context, label string, name string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM graph_nodes WHERE label = $1 AND name = $2`,
		store.SanitizeLabel(label), name,
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up node %q: %w", name, err)
	}
	return id, nil
}

func (s *PgxGraphStore) QueryLayer(ctx context.Context, layer common.Layer) (*store.LayerView, error) {
	nodeQuery := `SELECT id, label, name, layer, properties FROM graph_nodes`
	args := []any{}
	if layer != common.LayerComplete {
		nodeQuery += ` WHERE layer = $1`
		args = append(args, string(layer))
	}

	rows, err := s.pool.Query(ctx, nodeQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	view := &store.LayerView{
		Nodes: make([]common.Node, 0),
		Edges: make([]common.Edge, 0),
	}
	included := make(map[string]bool)
	for rows.Next() {
		var node common.Node
		var nodeLayer string
		if err := rows.Scan(&node.ID, &node.Label, &node.Name, &nodeLayer, &node.Properties); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		node.Layer = common.Layer(nodeLayer)
		view.Nodes = append(view.Nodes, node)
		included[node.ID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	edgeRows, err := s.pool.Query(ctx,
		`SELECT id, source_id, target_id, rel_type, properties FROM graph_edges`)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var edge common.Edge
		if err := edgeRows.Scan(&edge.ID, &edge.SourceID, &edge.TargetID, &edge.Type, &edge.Properties); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		if included[edge.SourceID] && included[edge.TargetID] {
			view.Edges = append(view.Edges, edge)
		}
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}
	return view, nil
}
