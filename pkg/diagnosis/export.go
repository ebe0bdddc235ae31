package diagnosis

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/stratakg/strata/pkg/common"
)

// ExportMissingCSV writes the missing documents of a diagnosis as CSV.
func ExportMissingCSV(w io.Writer, result *common.DiagnosisResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "category", "priority", "reason"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, m := range result.MissingDocuments {
		if err := cw.Write([]string{m.Name, m.Category, m.Priority, m.Reason}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
