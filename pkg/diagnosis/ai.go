package diagnosis

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/logger"
)

// AIDiagnosisClient runs completeness diagnosis through the model. When the
// model fails or returns something unusable, the local heuristic takes over,
// so diagnosis as a whole never fails on model trouble.
type AIDiagnosisClient struct {
	maxRetries int
	backoff    util.Backoff
}

type NewAIDiagnosisClientParams struct {
	MaxRetries int
}

func NewAIDiagnosisClient(params NewAIDiagnosisClientParams) *AIDiagnosisClient {
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &AIDiagnosisClient{
		maxRetries: maxRetries,
		backoff:    util.DefaultBackoff(),
	}
}

type aiDiagnosisResponse struct {
	CompletenessRate int                       `json:"completeness_rate"`
	MissingDocuments []common.MissingDocument  `json:"missing_documents"`
	CategoryAnalysis []common.CategoryAnalysis `json:"category_analysis"`
	Recommendations  []string                  `json:"recommendations"`
}

// Diagnose asks the model for a completeness diagnosis and falls back to the
// local heuristic when it cannot deliver one. The result's Mode field records
// which path produced it.
func (c *AIDiagnosisClient) Diagnose(
	ctx context.Context,
	client ai.ModelClient,
	framework *common.DiagnosisFramework,
	uploadedNames []string,
) (*common.DiagnosisResult, error) {
	if framework == nil {
		return nil, fmt.Errorf("framework must not be nil")
	}

	systemPrompt := fmt.Sprintf(
		ai.DiagnosisPrompt,
		framework.Standard,
		summarizeFramework(framework),
		summarizeUploads(uploadedNames),
	)

	res, err := util.RetryWithBackoff(ctx, c.maxRetries, c.backoff, func(ctx context.Context) (*aiDiagnosisResponse, error) {
		raw, err := client.GenerateCompletion(
			ctx,
			"请根据以上信息完成文件完整性诊断。",
			ai.WithSystemPrompts(systemPrompt),
			ai.WithTemperature(0.7),
		)
		if err != nil {
			return nil, err
		}
		return parseAIDiagnosis(raw)
	})
	if err != nil {
		logger.Warn("[Diagnosis] Model diagnosis failed, using local heuristic", "err", err)
		return Diagnose(framework, uploadedNames)
	}

	result := &common.DiagnosisResult{
		Standard:         framework.Standard,
		CompletenessRate: clampPercent(res.CompletenessRate),
		MissingDocuments: res.MissingDocuments,
		CategoryAnalysis: res.CategoryAnalysis,
		Recommendations:  res.Recommendations,
		Mode:             "ai",
	}
	if result.MissingDocuments == nil {
		result.MissingDocuments = make([]common.MissingDocument, 0)
	}
	if result.CategoryAnalysis == nil {
		result.CategoryAnalysis = make([]common.CategoryAnalysis, 0)
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = Recommendations(result.CompletenessRate)
	}
	return result, nil
}

func parseAIDiagnosis(raw string) (*aiDiagnosisResponse, error) {
	candidate := raw
	if block, ok := ai.ExtractJSONBlock(raw); ok {
		candidate = block
	}
	var res aiDiagnosisResponse
	if err := ai.UnmarshalFlexible(candidate, &res); err != nil {
		return nil, fmt.Errorf("diagnosis response could not be parsed: %w", err)
	}
	return &res, nil
}

func summarizeFramework(framework *common.DiagnosisFramework) string {
	var sb strings.Builder
	for _, category := range framework.Categories {
		required := ""
		if category.Required {
			required = "（必需）"
		}
		fmt.Fprintf(&sb, "- %s%s: %s\n", category.Name, required, strings.Join(category.Documents, "、"))
	}
	return sb.String()
}

func summarizeUploads(uploadedNames []string) string {
	if len(uploadedNames) == 0 {
		return "（无）"
	}
	var sb strings.Builder
	for _, name := range uploadedNames {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	return sb.String()
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
