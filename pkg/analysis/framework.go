package analysis

import (
	"context"
	"fmt"

	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/logger"
	"github.com/stratakg/strata/pkg/store"
)

// MaterializeFramework writes the document layer of an analysis into the
// graph as Document nodes required by the enterprise. This is the second
// phase of enterprise setup, run after ResolveEnterprise, so a framework can
// be reviewed or replaced before it becomes part of the graph.
func MaterializeFramework(
	ctx context.Context,
	graphStore store.GraphStore,
	enterpriseID string,
	documents []common.DocumentInfo,
) error {
	if enterpriseID == "" {
		return fmt.Errorf("enterprise ID must not be empty")
	}

	written := 0
	for _, doc := range documents {
		if doc.Name == "" {
			continue
		}
		props := map[string]any{}
		if doc.Category != "" {
			props["category"] = doc.Category
		}
		docID, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
			Label:      "Document",
			Name:       doc.Name,
			Properties: props,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert document %q: %w", doc.Name, err)
		}
		if _, err := graphStore.UpsertEdge(ctx, store.UpsertEdgeParams{
			SourceID: enterpriseID,
			TargetID: docID,
			Type:     "REQUIRES_DOCUMENT",
		}); err != nil {
			return fmt.Errorf("failed to link document %q: %w", doc.Name, err)
		}
		written++
	}

	logger.Info("[Analysis] Document framework materialized", "enterprise", enterpriseID, "documents", written)
	return nil
}
