package openai

import (
	"sync"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/stratakg/strata/pkg/ai"
)

// DefaultRequestTimeout bounds a single model call. A call exceeding it is
// treated as a failed attempt by the caller's retry policy.
const DefaultRequestTimeout = 120 * time.Second

// ModelOpenAIClient implements ai.ModelClient against any OpenAI-compatible
// chat-completion endpoint.
//
// A ModelOpenAIClient should be created using NewModelOpenAIClient.
type ModelOpenAIClient struct {
	extractionModel string
	analysisModel   string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	chat *openai.Client
}

// NewModelOpenAIClientParams defines the configuration for creating a new
// ModelOpenAIClient.
//
// ExtractionModel is used for triple extraction (low temperature);
// AnalysisModel for layered analysis and diagnosis. BaseURL may point at any
// OpenAI-compatible endpoint; an empty RequestTimeout falls back to
// DefaultRequestTimeout.
type NewModelOpenAIClientParams struct {
	ExtractionModel string
	AnalysisModel   string

	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// NewModelOpenAIClient creates and returns a new ModelOpenAIClient configured
// with the provided parameters.
//
// Example:
//
//	params := openai.NewModelOpenAIClientParams{
//		ExtractionModel: "gpt-4o-mini",
//		AnalysisModel:   "gpt-4o-mini",
//		APIKey:          os.Getenv("OPENAI_API_KEY"),
//	}
//	client := openai.NewModelOpenAIClient(params)
func NewModelOpenAIClient(params NewModelOpenAIClientParams) *ModelOpenAIClient {
	timeout := params.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
		option.WithRequestTimeout(timeout),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	client := openai.NewClient(options...)

	return &ModelOpenAIClient{
		extractionModel: params.ExtractionModel,
		analysisModel:   params.AnalysisModel,
		chat:            &client,
	}
}

func (c *ModelOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}

// ResetMetrics clears the accumulated usage counters.
func (c *ModelOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the accumulated usage counters.
func (c *ModelOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
