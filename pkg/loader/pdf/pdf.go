package pdf

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stratakg/strata/pkg/loader"
)

// PDFFileLoader decodes PDF files to plain text. Decoded text is cached per
// file so repeated pipeline stages do not re-parse the same document.
type PDFFileLoader struct {
	loader loader.FileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPDFFileLoader creates a PDF loader wrapping the given byte source.
func NewPDFFileLoader(inner loader.FileLoader) *PDFFileLoader {
	return &PDFFileLoader{
		loader: inner,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts text from a PDF file.
func (l *PDFFileLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		text, err := parsePDF(content)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
