package memory

import (
	"context"
	"testing"

	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/store"
)

func TestUpsertNode_IdempotentByLabelAndName(t *testing.T) {
	s := NewMemoryGraphStore()
	ctx := context.Background()

	first, err := s.UpsertNode(ctx, store.UpsertNodeParams{Label: "Department", Name: "质量部"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.UpsertNode(ctx, store.UpsertNodeParams{Label: "Department", Name: "质量部"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected same node ID, got %q and %q", first, second)
	}

	view, err := s.QueryLayer(ctx, common.LayerComplete)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Nodes) != 1 {
		t.Errorf("expected 1 node, got %d", len(view.Nodes))
	}
}

func TestUpsertNode_MergesPropertiesWithoutDroppingExisting(t *testing.T) {
	s := NewMemoryGraphStore()
	ctx := context.Background()

	id, err := s.UpsertNode(ctx, store.UpsertNodeParams{
		Label:      "Enterprise",
		Name:       "Acme",
		Properties: map[string]any{"industry": "manufacturing", "size": "small"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.UpsertNode(ctx, store.UpsertNodeParams{
		Label:      "Enterprise",
		Name:       "Acme",
		Properties: map[string]any{"size": "large"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := s.byID[id]
	if node.Properties["industry"] != "manufacturing" {
		t.Error("pre-existing property was dropped on upsert")
	}
	if node.Properties["size"] != "large" {
		t.Error("updated property did not win")
	}
}

func TestUpsertNode_CustomIDUsedOnCreateOnly(t *testing.T) {
	s := NewMemoryGraphStore()
	ctx := context.Background()

	id, err := s.UpsertNode(ctx, store.UpsertNodeParams{
		ID:    "enterprise_123_abc",
		Label: "Enterprise",
		Name:  "Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "enterprise_123_abc" {
		t.Errorf("custom ID not honored on create, got %q", id)
	}

	again, err := s.UpsertNode(ctx, store.UpsertNodeParams{
		ID:    "enterprise_456_def",
		Label: "Enterprise",
		Name:  "Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != "enterprise_123_abc" {
		t.Errorf("existing node ID should win over the supplied one, got %q", again)
	}
}

func TestUpsertEdge_IdempotentByEndpointsAndType(t *testing.T) {
	s := NewMemoryGraphStore()
	ctx := context.Background()

	src, _ := s.UpsertNode(ctx, store.UpsertNodeParams{Label: "Department", Name: "质量部"})
	tgt, _ := s.UpsertNode(ctx, store.UpsertNodeParams{Label: "Document", Name: "质量手册"})

	first, err := s.UpsertEdge(ctx, store.UpsertEdgeParams{SourceID: src, TargetID: tgt, Type: "负责"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.UpsertEdge(ctx, store.UpsertEdgeParams{SourceID: src, TargetID: tgt, Type: "负责"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected same edge ID, got %q and %q", first, second)
	}

	view, _ := s.QueryLayer(ctx, common.LayerComplete)
	if len(view.Edges) != 1 {
		t.Errorf("expected 1 edge after duplicate upsert, got %d", len(view.Edges))
	}
	if view.Edges[0].Type != "负责" {
		t.Errorf("relation type was mangled: %q", view.Edges[0].Type)
	}
}

func TestFindNodeByName_AbsentReturnsEmptyWithoutError(t *testing.T) {
	s := NewMemoryGraphStore()

	id, err := s.FindNodeByName(context.Background(), "Enterprise", "Nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Errorf("expected empty ID for absent node, got %q", id)
	}
}

func TestQueryLayer_FiltersNodesAndCrossLayerEdges(t *testing.T) {
	s := NewMemoryGraphStore()
	ctx := context.Background()

	dept, _ := s.UpsertNode(ctx, store.UpsertNodeParams{Label: "Department", Name: "质量部"})
	doc, _ := s.UpsertNode(ctx, store.UpsertNodeParams{Label: "Document", Name: "质量手册"})
	proc, _ := s.UpsertNode(ctx, store.UpsertNodeParams{Label: "Process", Name: "采购流程"})

	s.UpsertEdge(ctx, store.UpsertEdgeParams{SourceID: dept, TargetID: doc, Type: "负责"})
	s.UpsertEdge(ctx, store.UpsertEdgeParams{SourceID: dept, TargetID: proc, Type: "OWNS"})

	enterprise, err := s.QueryLayer(ctx, common.LayerEnterprise)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enterprise.Nodes) != 1 || enterprise.Nodes[0].Name != "质量部" {
		t.Errorf("enterprise layer nodes wrong: %v", enterprise.Nodes)
	}
	// Both edges cross layers, so the enterprise view shows none.
	if len(enterprise.Edges) != 0 {
		t.Errorf("expected no intra-layer edges, got %d", len(enterprise.Edges))
	}

	complete, _ := s.QueryLayer(ctx, common.LayerComplete)
	if len(complete.Nodes) != 3 || len(complete.Edges) != 2 {
		t.Errorf("complete view wrong: %d nodes, %d edges", len(complete.Nodes), len(complete.Edges))
	}
}
