package io

import (
	"context"
	"fmt"
	"os"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/loader"
)

// IOFileLoader reads document bytes from the local filesystem. For plain-text
// formats it also sanitizes the content to valid UTF-8; binary formats are
// returned untouched for a decoding loader to wrap.
type IOFileLoader struct{}

// NewIOFileLoader creates a filesystem-backed file loader.
func NewIOFileLoader() *IOFileLoader {
	return &IOFileLoader{}
}

// GetFileText reads the file at file.FilePath.
func (l *IOFileLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(file.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.FilePath, err)
	}
	if file.Format == loader.FormatText {
		return []byte(loader.NormalizeText(util.SanitizeUTF8(string(content)))), nil
	}
	return content, nil
}
