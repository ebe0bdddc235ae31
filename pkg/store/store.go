package store

import (
	"context"

	"github.com/stratakg/strata/pkg/common"
)

// UpsertNodeParams describes one node write. ID is only used when the node
// does not exist yet; an empty ID lets the store generate one.
type UpsertNodeParams struct {
	ID         string
	Label      string
	Name       string
	Properties map[string]any
}

// UpsertEdgeParams describes one edge write, keyed by
// (SourceID, TargetID, Type).
type UpsertEdgeParams struct {
	SourceID   string
	TargetID   string
	Type       string
	Properties map[string]any
}

// LayerView is the result of a layer query: the nodes of the requested
// layer, annotated with their resolved layer tag, and the edges whose both
// endpoints are in the returned node set.
type LayerView struct {
	Nodes []common.Node `json:"nodes"`
	Edges []common.Edge `json:"edges"`
}

// GraphStore is the persistence boundary of the knowledge graph.
//
// Upserts follow merge-if-exists semantics: a node write for a known
// (label, name) merges properties into the existing node instead of creating
// a duplicate, and an edge write for a known (source, target, type) updates
// rather than re-creates. Labels and relation types are sanitized at this
// boundary before being used structurally.
//
// The find-or-create sequence behind UpsertNode assumes the
// single-writer-per-request model: two concurrent writers racing on the same
// new name may both create a node. Implementations backed by an engine with
// an atomic conditional insert may narrow this; the in-memory implementation
// serializes writes behind a mutex instead.
type GraphStore interface {
	// UpsertNode creates or merges a node and returns its id.
	UpsertNode(ctx context.Context, params UpsertNodeParams) (string, error)

	// UpsertEdge creates or updates an edge and returns its id.
	UpsertEdge(ctx context.Context, params UpsertEdgeParams) (string, error)

	// FindNodeByName returns the id of the node with the given label and
	// name, or "" when no such node exists.
	FindNodeByName(ctx context.Context, label string, name string) (string, error)

	// QueryLayer returns the nodes and edges of one semantic layer, or the
	// whole graph for common.LayerComplete.
	QueryLayer(ctx context.Context, layer common.Layer) (*LayerView, error)
}
