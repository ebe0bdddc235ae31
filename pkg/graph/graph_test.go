package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/loader"
	"github.com/stratakg/strata/pkg/store/memory"
)

type fakeModel struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeModel) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return "", errors.New("no response configured")
}

func (f *fakeModel) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	return errors.New("not used")
}

func (f *fakeModel) ResetMetrics()               {}
func (f *fakeModel) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type stringLoader struct {
	text string
}

func (l *stringLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	return []byte(l.text), nil
}

func newTestClient(t *testing.T, maxRetries int) *GraphClient {
	t.Helper()
	client, err := NewGraphClient(NewGraphClientParams{MaxRetries: maxRetries})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	client.backoff.Sleep = func(time.Duration) {}
	return client
}

func TestDedupeTriples_FirstWinsAndOrderPreserved(t *testing.T) {
	triples := []common.Triple{
		{Subject: "质量部", Predicate: "负责", Object: "质量手册", Confidence: 0.9},
		{Subject: "管理者", Predicate: "批准", Object: "质量方针", Confidence: 0.8},
		{Subject: "质量部", Predicate: "负责", Object: "质量手册", Confidence: 0.4},
	}

	deduped := DedupeTriples(triples)

	if len(deduped) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(deduped))
	}
	if deduped[0].Subject != "质量部" || deduped[1].Subject != "管理者" {
		t.Errorf("input order not preserved: %v", deduped)
	}
	// The first occurrence keeps its confidence, the duplicate's is discarded.
	if deduped[0].Confidence != 0.9 {
		t.Errorf("expected first occurrence to win, got confidence %v", deduped[0].Confidence)
	}
}

func TestDedupeTriples_CaseAndWhitespaceStayDistinct(t *testing.T) {
	triples := []common.Triple{
		{Subject: "QA", Predicate: "owns", Object: "manual"},
		{Subject: "qa", Predicate: "owns", Object: "manual"},
	}
	if got := len(DedupeTriples(triples)); got != 2 {
		t.Errorf("expected case-differing triples to stay distinct, got %d", got)
	}
}

func TestDedupeTriples_Idempotent(t *testing.T) {
	triples := []common.Triple{
		{Subject: "a", Predicate: "b", Object: "c"},
		{Subject: "a", Predicate: "b", Object: "c"},
		{Subject: "d", Predicate: "e", Object: "f"},
	}
	once := DedupeTriples(triples)
	twice := DedupeTriples(once)
	if len(once) != len(twice) {
		t.Errorf("dedupe is not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestParseTriples(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr error
	}{
		{
			name: "plain wrapper object",
			raw:  `{"triples":[{"subject":"质量部","predicate":"负责","object":"质量手册","confidence":0.9}]}`,
			want: 1,
		},
		{
			name: "fenced with prose",
			raw:  "Here are the results:\n```json\n{\"triples\":[{\"subject\":\"a\",\"predicate\":\"b\",\"object\":\"c\"}]}\n```\nDone.",
			want: 1,
		},
		{
			name: "incomplete triples dropped",
			raw:  `{"triples":[{"subject":"a","predicate":"","object":"c"},{"subject":"x","predicate":"y","object":"z"}]}`,
			want: 1,
		},
		{
			name: "whitespace-only fields dropped",
			raw:  `{"triples":[{"subject":"  ","predicate":"y","object":"z"}]}`,
			want: 0,
		},
		{
			name: "bare array",
			raw:  `[{"subject":"a","predicate":"b","object":"c"}]`,
			want: 1,
		},
		{
			name:    "hopeless output",
			raw:     "I could not find any structured information in this document.",
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triples, err := parseTriples(tt.raw, "doc.txt")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(triples) != tt.want {
				t.Errorf("expected %d triples, got %d", tt.want, len(triples))
			}
		})
	}
}

func TestExtractTriples_RetriesWithBackoffThenSucceeds(t *testing.T) {
	client := newTestClient(t, 5)
	var delays []time.Duration
	client.backoff.Sleep = func(d time.Duration) { delays = append(delays, d) }

	model := &fakeModel{
		errs: []error{
			errors.New("timeout"),
			errors.New("timeout"),
		},
		responses: []string{
			"", "",
			`{"triples":[{"subject":"a","predicate":"b","object":"c"}]}`,
		},
	}

	triples, err := client.ExtractTriples(context.Background(), "doc.txt", "some text", model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triples) != 1 {
		t.Errorf("expected 1 triple, got %d", len(triples))
	}
	if model.calls != 3 {
		t.Errorf("expected 3 calls, got %d", model.calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) || delays[0] != want[0] || delays[1] != want[1] {
		t.Errorf("unexpected delays: %v", delays)
	}
}

func TestExtractTriples_RetryCeilingExhausted(t *testing.T) {
	client := newTestClient(t, 5)
	var delays []time.Duration
	client.backoff.Sleep = func(d time.Duration) { delays = append(delays, d) }

	model := &fakeModel{
		errs: []error{
			errors.New("boom"), errors.New("boom"), errors.New("boom"),
			errors.New("boom"), errors.New("boom"),
		},
	}

	_, err := client.ExtractTriples(context.Background(), "doc.txt", "some text", model)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if model.calls != 5 {
		t.Errorf("expected exactly 5 attempts, got %d", model.calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected %d delays, got %v", len(want), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d: got %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestExtractTriples_MalformedCountsAsAttempt(t *testing.T) {
	client := newTestClient(t, 3)

	model := &fakeModel{
		responses: []string{
			"no structure here",
			"still nothing",
			`{"triples":[{"subject":"a","predicate":"b","object":"c"}]}`,
		},
	}

	triples, err := client.ExtractTriples(context.Background(), "doc.txt", "text", model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triples) != 1 || model.calls != 3 {
		t.Errorf("expected recovery on third attempt, got %d triples after %d calls", len(triples), model.calls)
	}
}

func TestProcessFiles_EndToEnd(t *testing.T) {
	client := newTestClient(t, 1)
	graphStore := memory.NewMemoryGraphStore()
	ctx := context.Background()

	model := &fakeModel{
		responses: []string{
			`{"triples":[{"subject":"质量部","predicate":"负责","object":"质量手册","confidence":0.95,"subject_type":"DEPARTMENT","object_type":"DOCUMENT"}]}`,
		},
	}

	files := []loader.DocumentFile{{
		ID:       "f1",
		FilePath: "docs/quality_manual.txt",
		Format:   loader.FormatText,
		Loader:   &stringLoader{text: "质量部负责质量手册的编制和维护。"},
	}}

	result, err := client.ProcessFiles(ctx, files, model, graphStore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failed()) != 0 {
		t.Fatalf("unexpected failures: %v", result.Failed())
	}

	view, err := graphStore.QueryLayer(ctx, common.LayerComplete)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(view.Nodes))
	}
	if len(view.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(view.Edges))
	}
	if view.Edges[0].Type != "负责" {
		t.Errorf("relation type mangled: %q", view.Edges[0].Type)
	}

	// Rerunning the same batch must not create duplicate nodes or edges.
	model.calls = 0
	if _, err := client.ProcessFiles(ctx, files, model, graphStore); err != nil {
		t.Fatalf("unexpected error on rerun: %v", err)
	}
	view, _ = graphStore.QueryLayer(ctx, common.LayerComplete)
	if len(view.Nodes) != 2 || len(view.Edges) != 1 {
		t.Errorf("rerun created duplicates: %d nodes, %d edges", len(view.Nodes), len(view.Edges))
	}
}

func TestProcessFiles_FailedFileDoesNotAbortBatch(t *testing.T) {
	client := newTestClient(t, 1)
	graphStore := memory.NewMemoryGraphStore()

	model := &fakeModel{
		errs: []error{errors.New("model unavailable")},
		responses: []string{
			"",
			`{"triples":[{"subject":"a","predicate":"b","object":"c"}]}`,
		},
	}

	files := []loader.DocumentFile{
		{ID: "f1", FilePath: "bad.txt", Format: loader.FormatText, Loader: &stringLoader{text: "text one"}},
		{ID: "f2", FilePath: "good.txt", Format: loader.FormatText, Loader: &stringLoader{text: "text two"}},
	}

	result, err := client.ProcessFiles(context.Background(), files, model, graphStore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failed := result.Failed()
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed file, got %d", len(failed))
	}
	if !strings.Contains(failed[0].Err.Error(), "bad.txt") {
		t.Errorf("failure not annotated with file path: %v", failed[0].Err)
	}
	if result.Files[1].Err != nil {
		t.Errorf("second file should have succeeded: %v", result.Files[1].Err)
	}
}

func TestProcessFiles_EmptyDocumentYieldsNoTriples(t *testing.T) {
	client := newTestClient(t, 1)
	graphStore := memory.NewMemoryGraphStore()

	model := &fakeModel{}
	files := []loader.DocumentFile{{
		ID: "f1", FilePath: "empty.txt", Format: loader.FormatText,
		Loader: &stringLoader{text: "   \n  "},
	}}

	result, err := client.ProcessFiles(context.Background(), files, model, graphStore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.calls != 0 {
		t.Errorf("model should not be called for empty text, got %d calls", model.calls)
	}
	if len(result.Failed()) != 0 {
		t.Errorf("empty document should not count as failure")
	}
}

func TestExtractTriples_DocumentTooLarge(t *testing.T) {
	client, err := NewGraphClient(NewGraphClientParams{MaxRetries: 1, MaxPromptTokens: 10})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	text := strings.Repeat("quality management system documentation ", 50)
	_, err = client.ExtractTriples(context.Background(), "big.txt", text, &fakeModel{})
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Errorf("expected ErrDocumentTooLarge, got %v", err)
	}
}

func TestExportTriplesCSV(t *testing.T) {
	var sb strings.Builder
	triples := []common.Triple{
		{Subject: "质量部", Predicate: "负责", Object: "质量手册", Confidence: 0.9, SubjectType: "DEPARTMENT", ObjectType: "DOCUMENT"},
	}
	if err := ExportTriplesCSV(&sb, triples); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "subject,predicate,object") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "质量部,负责,质量手册,0.9,DEPARTMENT,DOCUMENT") {
		t.Errorf("missing record: %q", out)
	}
}

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		hint string
		want string
	}{
		{"DEPARTMENT", "Department"},
		{"department", "Department"},
		{" process ", "Process"},
		{"UNKNOWN_KIND", "Entity"},
		{"", "Entity"},
	}
	for _, tt := range tests {
		if got := typeLabel(tt.hint); got != tt.want {
			t.Errorf("typeLabel(%q) = %q, want %q", tt.hint, got, tt.want)
		}
	}
}

func TestRetryWithBackoff_ParentContextCancelAborts(t *testing.T) {
	client := newTestClient(t, 5)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := util.RetryWithBackoff(ctx, client.maxRetries, client.backoff, func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", fmt.Errorf("attempt %d failed", calls)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before abort, got %d", calls)
	}
}
