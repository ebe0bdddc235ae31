package diagnosis

import (
	"fmt"
	"math"

	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/logger"
)

// Diagnose runs the local completeness heuristic: every expected document in
// the framework is matched against the uploaded names, coverage is computed
// per category, and missing documents are classified by the category's
// required flag. The result is computed fresh from its inputs on every call.
func Diagnose(framework *common.DiagnosisFramework, uploadedNames []string) (*common.DiagnosisResult, error) {
	if framework == nil {
		return nil, fmt.Errorf("framework must not be nil")
	}

	result := &common.DiagnosisResult{
		Standard:         framework.Standard,
		MissingDocuments: make([]common.MissingDocument, 0),
		CategoryAnalysis: make([]common.CategoryAnalysis, 0, len(framework.Categories)),
		Mode:             "local",
	}

	totalExpected := framework.TotalExpected()
	totalFound := 0

	for _, category := range framework.Categories {
		analysis := common.CategoryAnalysis{
			Name:           category.Name,
			FoundDocuments: make([]common.FoundDocument, 0),
		}

		for _, expected := range category.Documents {
			best := matchResult{}
			bestName := ""
			for _, uploaded := range uploadedNames {
				if m := matchDocument(expected, uploaded); m.matched && m.confidence > best.confidence {
					best = m
					bestName = uploaded
				}
			}

			if best.matched {
				totalFound++
				analysis.FoundDocuments = append(analysis.FoundDocuments, common.FoundDocument{
					Expected:   expected,
					Matched:    bestName,
					Confidence: best.confidence,
				})
				continue
			}

			priority := "medium"
			reason := "未找到对应文件"
			if category.Required {
				priority = "high"
				reason = "必需类别缺少对应文件"
			}
			result.MissingDocuments = append(result.MissingDocuments, common.MissingDocument{
				Name:     expected,
				Category: category.Name,
				Priority: priority,
				Reason:   reason,
			})
		}

		if len(category.Documents) > 0 {
			analysis.CoverageRate = roundPercent(len(analysis.FoundDocuments), len(category.Documents))
		}
		result.CategoryAnalysis = append(result.CategoryAnalysis, analysis)
	}

	result.CompletenessRate = roundPercent(totalFound, totalExpected)
	result.Recommendations = Recommendations(result.CompletenessRate)

	logger.Info("[Diagnosis] Completeness computed",
		"standard", framework.Standard,
		"completeness", result.CompletenessRate,
		"missing", len(result.MissingDocuments),
	)
	return result, nil
}

// roundPercent returns found/expected as a whole percentage, 0 when nothing
// is expected.
func roundPercent(found int, expected int) int {
	if expected <= 0 {
		return 0
	}
	return int(math.Round(float64(found) / float64(expected) * 100))
}
