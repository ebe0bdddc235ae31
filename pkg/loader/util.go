package loader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// plainTextExts are extensions accepted permissively as UTF-8 plain text.
var plainTextExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
	".xml":  true,
}

var excessiveNewlines = regexp.MustCompile(`\n{3,}`)

// DetectFormat maps a filename to its document format. Unsupported
// extensions return an error; the caller records it as a per-document
// failure without aborting sibling documents.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return FormatPDF, nil
	case ext == ".docx":
		return FormatDocx, nil
	case ext == ".doc":
		return FormatDoc, nil
	case ext == ".csv":
		return FormatCSV, nil
	case plainTextExts[ext]:
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported document format %q", ext)
}

// CacheKey returns the key under which a file's decoded text is cached.
func CacheKey(file DocumentFile) string {
	return file.ID + "|" + file.FilePath
}

// NormalizeText collapses runs of blank lines and trims surrounding
// whitespace from decoded document text.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = excessiveNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
