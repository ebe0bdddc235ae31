package diagnosis

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/stratakg/strata/pkg/common"
)

//go:embed frameworks/*.yaml
var builtinFrameworks embed.FS

var validate = validator.New()

// LoadFramework reads and validates a diagnosis framework from a YAML file.
func LoadFramework(path string) (*common.DiagnosisFramework, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read framework file: %w", err)
	}
	return parseFramework(data)
}

// BuiltinFramework returns one of the embedded frameworks by standard code,
// e.g. "ISO9001".
func BuiltinFramework(standard string) (*common.DiagnosisFramework, error) {
	name := fmt.Sprintf("frameworks/%s.yaml", strings.ToLower(standard))
	data, err := builtinFrameworks.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("no builtin framework for standard %q", standard)
	}
	return parseFramework(data)
}

func parseFramework(data []byte) (*common.DiagnosisFramework, error) {
	var framework common.DiagnosisFramework
	if err := yaml.Unmarshal(data, &framework); err != nil {
		return nil, fmt.Errorf("failed to parse framework: %w", err)
	}
	if err := validate.Struct(&framework); err != nil {
		return nil, fmt.Errorf("invalid framework: %w", err)
	}
	return &framework, nil
}

// FrameworkFromAnalysis converts the document layer of a layered analysis
// into a diagnosis framework, so a generated framework can drive diagnosis
// the same way a builtin one does. Documents group by category; categories
// named 体系文件 or 程序文件 are treated as required.
func FrameworkFromAnalysis(standard string, analysis *common.LayeredAnalysis) *common.DiagnosisFramework {
	byCategory := make(map[string][]string)
	order := make([]string, 0)
	for _, doc := range analysis.DocumentLayer.Documents {
		if doc.Name == "" {
			continue
		}
		category := doc.Category
		if category == "" {
			category = "其他文件"
		}
		if _, seen := byCategory[category]; !seen {
			order = append(order, category)
		}
		byCategory[category] = append(byCategory[category], doc.Name)
	}

	framework := &common.DiagnosisFramework{
		Standard:   standard,
		Industry:   analysis.EnterpriseLayer.Industry,
		Categories: make([]common.FrameworkCategory, 0, len(order)),
	}
	for _, category := range order {
		framework.Categories = append(framework.Categories, common.FrameworkCategory{
			Name:      category,
			Required:  category == "体系文件" || category == "程序文件",
			Documents: byCategory[category],
		})
	}
	return framework
}
