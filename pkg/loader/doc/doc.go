package doc

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stratakg/strata/pkg/loader"
)

// DocPlaceholder is returned when a legacy .doc file cannot be decoded.
// Legacy Word parsing is best-effort; the pipeline carries this text instead
// of failing the document so sibling files keep processing.
const DocPlaceholder = "[Unsupported legacy .doc content. Please convert the file to .docx or PDF and upload it again.]"

// DocFileLoader decodes Word documents (.docx, best-effort .doc) to plain
// text, caching the result per file.
type DocFileLoader struct {
	loader loader.FileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewDocFileLoader creates a Word document loader wrapping the given byte source.
func NewDocFileLoader(inner loader.FileLoader) *DocFileLoader {
	return &DocFileLoader{
		loader: inner,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts text content from a Word document. For .docx the XML
// body is parsed directly; .doc files that turn out to be OOXML in disguise
// are parsed the same way, anything else degrades to DocPlaceholder.
func (l *DocFileLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
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

		text, err := parseDocx(content)
		if err != nil {
			if file.Format == loader.FormatDoc {
				return []byte(DocPlaceholder), nil
			}
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
