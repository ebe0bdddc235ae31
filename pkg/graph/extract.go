package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/logger"
)

// ErrMalformedResponse marks a model reply that could not be parsed into
// triples even after repair. It is retryable up to the client's retry ceiling.
var ErrMalformedResponse = errors.New("model response could not be parsed as triples")

// ErrDocumentTooLarge is returned when a document exceeds the prompt token
// budget. Inputs of that size must be segmented before extraction.
var ErrDocumentTooLarge = errors.New("document exceeds the prompt token budget")

type tripleResponse struct {
	Triples []common.Triple `json:"triples"`
}

// ExtractTriples runs triple extraction over a single document text. The
// model reply is parsed leniently, first as a fenced or embedded JSON block
// and then through repair, but a reply that still fails to parse counts as
// a failed attempt. Incomplete triples are dropped with a warning rather
// than failing the document.
func (g *GraphClient) ExtractTriples(
	ctx context.Context,
	filePath string,
	text string,
	client ai.ModelClient,
) ([]common.Triple, error) {
	tokens, err := g.countTokens(text)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}
	if tokens > g.maxPromptTokens {
		return nil, fmt.Errorf("%w: %d tokens, limit %d", ErrDocumentTooLarge, tokens, g.maxPromptTokens)
	}

	baseName := filepath.Base(filePath)
	systemPrompt := fmt.Sprintf(ai.TripleExtractPrompt, baseName)

	triples, err := util.RetryWithBackoff(ctx, g.maxRetries, g.backoff, func(ctx context.Context) ([]common.Triple, error) {
		raw, err := client.GenerateCompletion(
			ctx,
			text,
			ai.WithSystemPrompts(systemPrompt),
			ai.WithTemperature(0.1),
		)
		if err != nil {
			return nil, err
		}
		return parseTriples(raw, baseName)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract triples from %q: %w", baseName, err)
	}
	return triples, nil
}

func parseTriples(raw string, baseName string) ([]common.Triple, error) {
	candidate := raw
	if block, ok := ai.ExtractJSONBlock(raw); ok {
		candidate = block
	}

	var res tripleResponse
	if err := ai.UnmarshalFlexible(candidate, &res); err != nil {
		// A bare array without the wrapper object is accepted too.
		var bare []common.Triple
		if arrErr := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &bare); arrErr == nil {
			res.Triples = bare
		} else {
			return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, util.Truncate(raw, 200))
		}
	}

	triples := make([]common.Triple, 0, len(res.Triples))
	for _, t := range res.Triples {
		t.Subject = strings.TrimSpace(t.Subject)
		t.Predicate = strings.TrimSpace(t.Predicate)
		t.Object = strings.TrimSpace(t.Object)
		if !t.Complete() {
			logger.Warn("[Extract] Dropping incomplete triple", "file", baseName, "triple", t)
			continue
		}
		triples = append(triples, t)
	}
	return triples, nil
}
