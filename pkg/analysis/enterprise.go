package analysis

import (
	"context"
	"fmt"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/logger"
	"github.com/stratakg/strata/pkg/store"
)

// ResolveEnterprise finds or creates the Enterprise node for an analysis and
// materializes the standard, enterprise and process layers around it. A named
// enterprise resolves to its existing node when one exists, so repeated
// analyses converge on one entity; an unnamed description always creates a
// fresh enterprise. Process nodes are additive: re-analysis adds and updates
// but never removes.
//
// The document layer is intentionally not written here; it is materialized
// separately by MaterializeFramework once a framework has been settled.
func ResolveEnterprise(
	ctx context.Context,
	graphStore store.GraphStore,
	analysis *common.LayeredAnalysis,
) (*common.EnterpriseInfo, error) {
	analysis.Normalize()

	name := analysis.EnterpriseLayer.Name
	newID := util.NewEnterpriseID()

	if name != "" {
		existing, err := graphStore.FindNodeByName(ctx, "Enterprise", name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up enterprise %q: %w", name, err)
		}
		if existing != "" {
			newID = existing
		}
	} else {
		// Anonymous descriptions never merge into an existing enterprise;
		// the generated ID doubles as the node name.
		name = newID
		logger.Info("[Analysis] Description names no enterprise, creating anonymous entity", "id", newID)
	}

	props := map[string]any{}
	if analysis.EnterpriseLayer.Industry != "" {
		props["industry"] = analysis.EnterpriseLayer.Industry
	}

	id, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
		ID:         newID,
		Label:      "Enterprise",
		Name:       name,
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert enterprise %q: %w", name, err)
	}
	enterpriseID := id

	if err := materializeStandards(ctx, graphStore, enterpriseID, analysis); err != nil {
		return nil, err
	}
	if err := materializeStructure(ctx, graphStore, enterpriseID, analysis); err != nil {
		return nil, err
	}
	if err := materializeProcesses(ctx, graphStore, enterpriseID, analysis); err != nil {
		return nil, err
	}

	return &common.EnterpriseInfo{
		EnterpriseID:   enterpriseID,
		EnterpriseName: name,
	}, nil
}

func materializeStandards(ctx context.Context, graphStore store.GraphStore, enterpriseID string, analysis *common.LayeredAnalysis) error {
	for _, s := range analysis.StandardLayer.Standards {
		if s.Name == "" && s.Code == "" {
			continue
		}
		name := s.Name
		if name == "" {
			name = s.Code
		}
		props := map[string]any{}
		if s.Code != "" {
			props["code"] = s.Code
		}
		if s.Description != "" {
			props["description"] = s.Description
		}
		standardID, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
			Label:      "Standard",
			Name:       name,
			Properties: props,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert standard %q: %w", name, err)
		}
		if _, err := graphStore.UpsertEdge(ctx, store.UpsertEdgeParams{
			SourceID: standardID,
			TargetID: enterpriseID,
			Type:     "APPLIES_TO",
		}); err != nil {
			return fmt.Errorf("failed to link standard %q: %w", name, err)
		}
	}
	return nil
}

func materializeStructure(ctx context.Context, graphStore store.GraphStore, enterpriseID string, analysis *common.LayeredAnalysis) error {
	for _, dept := range analysis.EnterpriseLayer.Departments {
		if dept == "" {
			continue
		}
		deptID, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
			Label: "Department",
			Name:  dept,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert department %q: %w", dept, err)
		}
		if _, err := graphStore.UpsertEdge(ctx, store.UpsertEdgeParams{
			SourceID: enterpriseID,
			TargetID: deptID,
			Type:     "CONTAINS",
		}); err != nil {
			return fmt.Errorf("failed to link department %q: %w", dept, err)
		}
	}

	for _, product := range analysis.EnterpriseLayer.Products {
		if product == "" {
			continue
		}
		productID, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
			Label: "Product",
			Name:  product,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert product %q: %w", product, err)
		}
		if _, err := graphStore.UpsertEdge(ctx, store.UpsertEdgeParams{
			SourceID: enterpriseID,
			TargetID: productID,
			Type:     "OFFERS",
		}); err != nil {
			return fmt.Errorf("failed to link product %q: %w", product, err)
		}
	}
	return nil
}

func materializeProcesses(ctx context.Context, graphStore store.GraphStore, enterpriseID string, analysis *common.LayeredAnalysis) error {
	upsert := func(p common.ProcessInfo, kind string) error {
		if p.Name == "" {
			return nil
		}
		props := map[string]any{"kind": kind}
		if p.Description != "" {
			props["description"] = p.Description
		}
		if p.Owner != "" {
			props["owner"] = p.Owner
		}
		processID, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
			Label:      "Process",
			Name:       p.Name,
			Properties: props,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert process %q: %w", p.Name, err)
		}
		if _, err := graphStore.UpsertEdge(ctx, store.UpsertEdgeParams{
			SourceID: enterpriseID,
			TargetID: processID,
			Type:     "HAS_PROCESS",
		}); err != nil {
			return fmt.Errorf("failed to link process %q: %w", p.Name, err)
		}
		if p.Owner != "" {
			ownerID, err := graphStore.FindNodeByName(ctx, "Department", p.Owner)
			if err != nil {
				return fmt.Errorf("failed to look up owner %q: %w", p.Owner, err)
			}
			if ownerID != "" {
				if _, err := graphStore.UpsertEdge(ctx, store.UpsertEdgeParams{
					SourceID: ownerID,
					TargetID: processID,
					Type:     "OWNS",
				}); err != nil {
					return fmt.Errorf("failed to link owner %q: %w", p.Owner, err)
				}
			}
		}
		return nil
	}

	for _, p := range analysis.ProcessLayer.CoreProcesses {
		if err := upsert(p, "core"); err != nil {
			return err
		}
	}
	for _, p := range analysis.ProcessLayer.SupportProcesses {
		if err := upsert(p, "support"); err != nil {
			return err
		}
	}
	return nil
}
