package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/ollama/ollama/api"

	"github.com/stratakg/strata/pkg/ai"
)

// ModelOllamaClient implements ai.ModelClient against a locally-hosted
// Ollama server. It is the drop-in alternative to the OpenAI-compatible
// client for deployments that cannot send documents to an external API.
type ModelOllamaClient struct {
	extractionModel string
	analysisModel   string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	client *api.Client
}

// NewModelOllamaClientParams contains configuration for creating a new
// ModelOllamaClient.
type NewModelOllamaClientParams struct {
	ExtractionModel string
	AnalysisModel   string

	BaseURL string
	APIKey  string
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewModelOllamaClient creates a new Ollama-backed model client. An empty
// BaseURL falls back to the default Ollama address.
func NewModelOllamaClient(params NewModelOllamaClientParams) (*ModelOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := http.DefaultClient
	if params.APIKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{
					"Authorization": "Bearer " + params.APIKey,
				},
				rt: http.DefaultTransport,
			},
		}
	}

	return &ModelOllamaClient{
		extractionModel: params.ExtractionModel,
		analysisModel:   params.AnalysisModel,
		client:          api.NewClient(u, httpClient),
	}, nil
}

func (c *ModelOllamaClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}

// ResetMetrics clears the accumulated usage counters.
func (c *ModelOllamaClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the accumulated usage counters.
func (c *ModelOllamaClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
