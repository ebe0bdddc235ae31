package common

// Layer identifies one of the four semantic strata of the knowledge graph.
// LayerComplete is a query-only pseudo layer covering all of them.
type Layer string

const (
	LayerStandard   Layer = "standard"
	LayerEnterprise Layer = "enterprise"
	LayerProcess    Layer = "process"
	LayerDocument   Layer = "document"
	LayerComplete   Layer = "complete"
)

// Valid reports whether l names a real layer or the complete pseudo layer.
func (l Layer) Valid() bool {
	switch l {
	case LayerStandard, LayerEnterprise, LayerProcess, LayerDocument, LayerComplete:
		return true
	}
	return false
}

// Triple is a single (subject, predicate, object) fact extracted from text.
// Identity is the exact (case-sensitive) combination of the three strings;
// confidence and the type hints carry no identity.
type Triple struct {
	Subject     string  `json:"subject"`
	Predicate   string  `json:"predicate"`
	Object      string  `json:"object"`
	Confidence  float64 `json:"confidence"`
	SubjectType string  `json:"subject_type"`
	ObjectType  string  `json:"object_type"`
}

// Complete reports whether all three identity fields are non-empty.
// Incomplete triples are discarded during extraction.
func (t Triple) Complete() bool {
	return t.Subject != "" && t.Predicate != "" && t.Object != ""
}

// Node is an entity in the knowledge graph. Nodes are upserted by
// (Label, Name); re-ingesting a known name merges properties instead of
// creating a second node.
type Node struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Name       string         `json:"name"`
	Layer      Layer          `json:"layer"`
	Properties map[string]any `json:"properties"`
}

// Edge is a directed relation between two nodes, upserted by
// (SourceID, TargetID, Type).
type Edge struct {
	ID         string         `json:"id"`
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// EnterpriseInfo identifies the business entity a layered analysis was
// resolved to.
type EnterpriseInfo struct {
	EnterpriseID   string `json:"enterprise_id"`
	EnterpriseName string `json:"enterprise_name"`
}
