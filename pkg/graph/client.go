package graph

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/stratakg/strata/internal/util"
)

// GraphClient drives the document-to-graph pipeline. It manages token
// budgeting, per-file processing order, and retry behavior for AI calls.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	tokenEncoder    string
	parallelFiles   int
	maxRetries      int
	maxPromptTokens int
	backoff         util.Backoff
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// TokenEncoder specifies the tokenizer used for prompt budgeting.
// ParallelFiles controls how many files can be processed in parallel;
// the default of 1 keeps ingestion strictly sequential.
// MaxRetries bounds attempts per AI call.
// MaxPromptTokens caps how large a document may be before processing
// refuses it; callers are expected to segment oversized inputs upstream.
type NewGraphClientParams struct {
	TokenEncoder    string
	ParallelFiles   int
	MaxRetries      int
	MaxPromptTokens int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	params := graph.NewGraphClientParams{
//		TokenEncoder:  "o200k_base",
//		ParallelFiles: 1,
//		MaxRetries:    5,
//	}
//	client, err := graph.NewGraphClient(params)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Returns a pointer to GraphClient and an error if initialization fails.
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	encoder := params.TokenEncoder
	if encoder == "" {
		encoder = "o200k_base"
	}
	if _, err := tiktoken.GetEncoding(encoder); err != nil {
		return nil, err
	}

	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	parallelFiles := params.ParallelFiles
	if parallelFiles <= 0 {
		parallelFiles = 1
	}
	maxPromptTokens := params.MaxPromptTokens
	if maxPromptTokens <= 0 {
		maxPromptTokens = 100000
	}

	g := &GraphClient{
		tokenEncoder:    encoder,
		parallelFiles:   parallelFiles,
		maxRetries:      maxRetries,
		maxPromptTokens: maxPromptTokens,
		backoff:         util.DefaultBackoff(),
	}

	return g, nil
}

func (g *GraphClient) countTokens(text string) (int, error) {
	enc, err := tiktoken.GetEncoding(g.tokenEncoder)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
