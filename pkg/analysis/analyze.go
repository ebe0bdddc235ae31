// Package analysis turns a free-text business description into the
// four-layer enterprise structure and materializes it in the graph store.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/logger"
)

// AnalysisClient runs layered analysis against the model. Analysis never
// aborts: when the model is unreachable or its output cannot be parsed, the
// static default structure for the industry and standard is used instead.
type AnalysisClient struct {
	maxRetries int
	backoff    util.Backoff
}

type NewAnalysisClientParams struct {
	MaxRetries int
}

func NewAnalysisClient(params NewAnalysisClientParams) *AnalysisClient {
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &AnalysisClient{
		maxRetries: maxRetries,
		backoff:    util.DefaultBackoff(),
	}
}

// Request carries the inputs for one layered analysis.
type Request struct {
	Description string
	Industry    string
	Standard    string
}

// Analyze produces the layered structure for a business description. The
// second return value reports whether the result came from the model; false
// means the static default was substituted. The error is non-nil only for
// invalid input.
func (c *AnalysisClient) Analyze(
	ctx context.Context,
	client ai.ModelClient,
	req Request,
) (*common.LayeredAnalysis, bool, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, false, fmt.Errorf("business description must not be empty")
	}
	standard := req.Standard
	if standard == "" {
		standard = "ISO9001"
	}

	systemPrompt := fmt.Sprintf(ai.LayeredAnalysisPrompt, req.Industry, standard)

	result, err := util.RetryWithBackoff(ctx, c.maxRetries, c.backoff, func(ctx context.Context) (*common.LayeredAnalysis, error) {
		raw, err := client.GenerateCompletion(
			ctx,
			req.Description,
			ai.WithSystemPrompts(systemPrompt),
			ai.WithTemperature(0.7),
		)
		if err != nil {
			return nil, err
		}
		return parseAnalysis(raw)
	})
	if err != nil {
		logger.Warn("[Analysis] Falling back to default structure", "standard", standard, "err", err)
		fallback := DefaultAnalysis(req.Industry, standard)
		return fallback, false, nil
	}

	result.Normalize()
	ensureStandard(result, standard)
	return result, true, nil
}

// parseAnalysis walks the lenient parse chain: embedded JSON block first,
// then the raw text directly, then repair.
func parseAnalysis(raw string) (*common.LayeredAnalysis, error) {
	candidate := raw
	if block, ok := ai.ExtractJSONBlock(raw); ok {
		candidate = block
	}

	var analysis common.LayeredAnalysis
	if err := ai.UnmarshalFlexible(candidate, &analysis); err != nil {
		return nil, fmt.Errorf("analysis response could not be parsed: %w", err)
	}
	return &analysis, nil
}

// ensureStandard guarantees the reference standard appears in the standard
// layer even when the model forgot to include it.
func ensureStandard(a *common.LayeredAnalysis, standard string) {
	for _, s := range a.StandardLayer.Standards {
		if strings.EqualFold(s.Code, standard) || strings.EqualFold(s.Name, standard) {
			return
		}
	}
	a.StandardLayer.Standards = append([]common.StandardInfo{{
		Name: standard,
		Code: standard,
	}}, a.StandardLayer.Standards...)
}
