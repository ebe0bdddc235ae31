package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/loader"
)

// CSVFileLoader renders CSV files as line-oriented text so the extraction
// prompt can read tabular data.
type CSVFileLoader struct {
	loader loader.FileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewCSVFileLoader creates a CSV loader wrapping the given byte source.
func NewCSVFileLoader(inner loader.FileLoader) *CSVFileLoader {
	return &CSVFileLoader{
		loader: inner,
		cache:  make(map[string][]byte),
	}
}

// GetFileText parses the CSV and renders each record as "header: value"
// pairs, one record per line.
func (l *CSVFileLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
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

		text, err := renderCSV(content)
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

func renderCSV(content []byte) ([]byte, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	var sb strings.Builder
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}

		pairs := make([]string, 0, len(record))
		for i, field := range record {
			name := fmt.Sprintf("col%d", i+1)
			if i < len(header) {
				name = strings.TrimSpace(header[i])
			}
			pairs = append(pairs, fmt.Sprintf("%s: %s", name, strings.TrimSpace(field)))
		}
		sb.WriteString(strings.Join(pairs, ", "))
		sb.WriteByte('\n')
	}

	return []byte(loader.NormalizeText(util.SanitizeUTF8(sb.String()))), nil
}
