// Package memory provides an in-process GraphStore used by tests and by
// single-shot CLI runs that do not need persistence.
package memory

import (
	"context"
	"sync"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/store"
)

type MemoryGraphStore struct {
	mu    sync.Mutex
	nodes map[string]*common.Node // keyed by label + "\x00" + name
	edges map[string]*common.Edge // keyed by source + "\x00" + target + "\x00" + type
	byID  map[string]*common.Node
}

func NewMemoryGraphStore() *MemoryGraphStore {
	return &MemoryGraphStore{
		nodes: make(map[string]*common.Node),
		edges: make(map[string]*common.Edge),
		byID:  make(map[string]*common.Node),
	}
}

func nodeKey(label string, name string) string {
	return label + "\x00" + name
}

func edgeKey(source string, target string, relType string) string {
	return source + "\x00" + target + "\x00" + relType
}

func (s *MemoryGraphStore) UpsertNode(ctx context.Context, params store.UpsertNodeParams) (string, error) {
	label := store.SanitizeLabel(params.Label)
	name := util.SanitizeUTF8(params.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := nodeKey(label, name)
	if existing, ok := s.nodes[key]; ok {
		existing.Properties = store.MergeProperties(existing.Properties, params.Properties)
		return existing.ID, nil
	}

	id := params.ID
	if id == "" {
		id = util.NewID()
	}
	node := &common.Node{
		ID:         id,
		Label:      label,
		Name:       name,
		Layer:      store.LabelLayer(label),
		Properties: store.MergeProperties(nil, params.Properties),
	}
	s.nodes[key] = node
	s.byID[id] = node
	return id, nil
}

func (s *MemoryGraphStore) UpsertEdge(ctx context.Context, params store.UpsertEdgeParams) (string, error) {
	relType := store.SanitizeRelationType(params.Type)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := edgeKey(params.SourceID, params.TargetID, relType)
	if existing, ok := s.edges[key]; ok {
		existing.Properties = store.MergeProperties(existing.Properties, params.Properties)
		return existing.ID, nil
	}

	edge := &common.Edge{
		ID:         util.NewID(),
		SourceID:   params.SourceID,
		TargetID:   params.TargetID,
		Type:       relType,
		Properties: store.MergeProperties(nil, params.Properties),
	}
	s.edges[key] = edge
	return edge.ID, nil
}

func (s *MemoryGraphStore) FindNodeByName(ctx context.Context, label string, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if node, ok := s.nodes[nodeKey(store.SanitizeLabel(label), name)]; ok {
		return node.ID, nil
	}
	return "", nil
}

func (s *MemoryGraphStore) QueryLayer(ctx context.Context, layer common.Layer) (*store.LayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &store.LayerView{
		Nodes: make([]common.Node, 0),
		Edges: make([]common.Edge, 0),
	}

	included := make(map[string]bool)
	for _, node := range s.nodes {
		if layer != common.LayerComplete && node.Layer != layer {
			continue
		}
		view.Nodes = append(view.Nodes, *node)
		included[node.ID] = true
	}
	for _, edge := range s.edges {
		if included[edge.SourceID] && included[edge.TargetID] {
			view.Edges = append(view.Edges, *edge)
		}
	}
	return view, nil
}
