package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/loader"
)

func parsePDF(input []byte) ([]byte, error) {
	reader, err := pdf.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages that fail to decode are skipped rather than failing
			// the whole document.
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	result := loader.NormalizeText(util.SanitizeUTF8(sb.String()))
	if result == "" {
		return nil, fmt.Errorf("no extractable text in pdf (%d pages)", totalPages)
	}
	return []byte(result), nil
}
