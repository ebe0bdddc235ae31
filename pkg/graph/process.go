package graph

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/loader"
	"github.com/stratakg/strata/pkg/logger"
	"github.com/stratakg/strata/pkg/store"
)

// FileResult records the outcome for one document in a batch. A failed file
// carries its error here instead of aborting the batch.
type FileResult struct {
	FileID   string
	FilePath string
	Triples  []common.Triple
	Err      error
}

// ProcessResult summarizes a batch run.
type ProcessResult struct {
	Files       []FileResult
	NodesUpsert int
	EdgesUpsert int
}

// Failed returns the results of files that did not complete.
func (r *ProcessResult) Failed() []FileResult {
	failed := make([]FileResult, 0)
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// ProcessFiles runs the full pipeline over a batch of documents: load text,
// extract triples, deduplicate, and write nodes and edges to the store.
// Files are processed with at most parallelFiles in flight (1 by default, so
// strictly in input order). A file that fails is recorded in its FileResult
// and the rest of the batch continues; the returned error is non-nil only
// when the batch could not run at all.
func (g *GraphClient) ProcessFiles(
	ctx context.Context,
	files []loader.DocumentFile,
	aiClient ai.ModelClient,
	graphStore store.GraphStore,
) (*ProcessResult, error) {
	result := &ProcessResult{
		Files: make([]FileResult, len(files)),
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelFiles)

	for i, file := range files {
		eg.Go(func() error {
			fr := FileResult{FileID: file.ID, FilePath: file.FilePath}
			triples, err := g.processFile(egCtx, file, aiClient)
			if err != nil {
				fr.Err = fmt.Errorf("failed to process %q: %w", file.FilePath, err)
				logger.Error("[Process] File failed", "file", file.FilePath, "err", err)
				result.Files[i] = fr
				return nil
			}
			fr.Triples = triples

			nodes, edges, err := g.storeTriples(egCtx, triples, file, graphStore)
			if err != nil {
				fr.Err = fmt.Errorf("failed to store triples for %q: %w", file.FilePath, err)
				logger.Error("[Process] Store write failed", "file", file.FilePath, "err", err)
				result.Files[i] = fr
				return nil
			}

			mu.Lock()
			result.NodesUpsert += nodes
			result.EdgesUpsert += edges
			mu.Unlock()
			result.Files[i] = fr

			logger.Info("[Process] File done",
				"file", filepath.Base(file.FilePath),
				"triples", len(triples),
			)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (g *GraphClient) processFile(
	ctx context.Context,
	file loader.DocumentFile,
	aiClient ai.ModelClient,
) ([]common.Triple, error) {
	raw, err := file.GetText(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load text: %w", err)
	}
	text := string(raw)
	if strings.TrimSpace(text) == "" {
		logger.Warn("[Process] Document has no extractable text", "file", file.FilePath)
		return nil, nil
	}

	triples, err := g.ExtractTriples(ctx, file.FilePath, text, aiClient)
	if err != nil {
		return nil, err
	}
	return DedupeTriples(triples), nil
}

// typeLabels maps the extraction type hints to node labels. Unknown or
// empty hints land on Entity.
var typeLabels = map[string]string{
	"DEPARTMENT":  "Department",
	"ROLE":        "Role",
	"PROCESS":     "Process",
	"DOCUMENT":    "Document",
	"PRODUCT":     "Product",
	"STANDARD":    "Standard",
	"REQUIREMENT": "Requirement",
	"ENTITY":      "Entity",
}

func typeLabel(hint string) string {
	if label, ok := typeLabels[strings.ToUpper(strings.TrimSpace(hint))]; ok {
		return label
	}
	return "Entity"
}

func (g *GraphClient) storeTriples(
	ctx context.Context,
	triples []common.Triple,
	file loader.DocumentFile,
	graphStore store.GraphStore,
) (int, int, error) {
	nodes := 0
	edges := 0
	source := filepath.Base(file.FilePath)

	for _, t := range triples {
		subjectID, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
			Label:      typeLabel(t.SubjectType),
			Name:       t.Subject,
			Properties: map[string]any{"source": source},
		})
		if err != nil {
			return nodes, edges, err
		}
		nodes++

		objectID, err := graphStore.UpsertNode(ctx, store.UpsertNodeParams{
			Label:      typeLabel(t.ObjectType),
			Name:       t.Object,
			Properties: map[string]any{"source": source},
		})
		if err != nil {
			return nodes, edges, err
		}
		nodes++

		edgeProps := map[string]any{"source": source}
		if t.Confidence > 0 {
			edgeProps["confidence"] = t.Confidence
		}
		if _, err := graphStore.UpsertEdge(ctx, store.UpsertEdgeParams{
			SourceID:   subjectID,
			TargetID:   objectID,
			Type:       t.Predicate,
			Properties: edgeProps,
		}); err != nil {
			return nodes, edges, err
		}
		edges++
	}
	return nodes, edges, nil
}
