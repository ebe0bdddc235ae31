package common

// DiagnosisFramework is the reference catalogue of documents a standard
// expects an enterprise of a given industry to maintain. Frameworks are
// static read-only data; the diagnosis engine never mutates them.
type DiagnosisFramework struct {
	Standard   string              `json:"standard" yaml:"standard" validate:"required"`
	Industry   string              `json:"industry" yaml:"industry"`
	Categories []FrameworkCategory `json:"categories" yaml:"categories" validate:"required,dive"`
}

// FrameworkCategory groups expected documents under one topic. Required
// categories raise the priority of their missing documents.
type FrameworkCategory struct {
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Required    bool     `json:"required" yaml:"required"`
	Documents   []string `json:"documents" yaml:"documents" validate:"required,min=1"`
	Description string   `json:"description" yaml:"description"`
}

// TotalExpected returns the number of documents the framework expects
// across all categories.
func (f *DiagnosisFramework) TotalExpected() int {
	total := 0
	for _, c := range f.Categories {
		total += len(c.Documents)
	}
	return total
}

// DiagnosisResult is the outcome of one completeness diagnosis. It is
// computed fresh on every call and never persisted as authoritative state.
type DiagnosisResult struct {
	Standard         string             `json:"standard"`
	CompletenessRate int                `json:"completeness_rate"`
	MissingDocuments []MissingDocument  `json:"missing_documents"`
	CategoryAnalysis []CategoryAnalysis `json:"category_analysis"`
	Recommendations  []string           `json:"recommendations"`
	Mode             string             `json:"mode"`
}

// MissingDocument describes one expected document with no matching upload.
type MissingDocument struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
}

// CategoryAnalysis holds per-category coverage figures.
type CategoryAnalysis struct {
	Name           string          `json:"name"`
	CoverageRate   int             `json:"coverage_rate"`
	FoundDocuments []FoundDocument `json:"found_documents"`
}

// FoundDocument records which uploaded file satisfied an expected document
// and with what confidence.
type FoundDocument struct {
	Expected   string  `json:"expected"`
	Matched    string  `json:"matched"`
	Confidence float64 `json:"confidence"`
}
