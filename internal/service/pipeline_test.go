package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"faqforge/internal/artifact"
	"faqforge/internal/domain"
	"faqforge/internal/domain/models"
	"faqforge/internal/domain/services"
)

// fakeConverter returns a fixed HTML document for any input.
type fakeConverter struct {
	html string
	err  error
}

func (c *fakeConverter) Convert(_ context.Context, _ []byte) (string, error) {
	return c.html, c.err
}

// fakeGenerator answers from a canned heading -> alternatives map and
// records which headings were requested.
type fakeGenerator struct {
	mu        sync.Mutex
	responses map[string][]string
	failFor   map[string]bool
	requested []string
}

func (g *fakeGenerator) Generate(_ context.Context, req services.GenerationRequest) ([]string, error) {
	g.mu.Lock()
	g.requested = append(g.requested, req.Heading)
	g.mu.Unlock()

	if g.failFor[req.Heading] {
		return nil, fmt.Errorf("generator unavailable")
	}
	if alts, ok := g.responses[req.Heading]; ok {
		return alts, nil
	}
	return []string{req.Heading + "?"}, nil
}

// fakeSynchronizer records its input and optionally fails.
type fakeSynchronizer struct {
	called    bool
	sections  []models.FaqSection
	questions map[string]models.QuestionSet
	key       models.TargetingKey
	err       error
}

func (s *fakeSynchronizer) Sync(_ context.Context, sections []models.FaqSection, questions map[string]models.QuestionSet, key models.TargetingKey, _ models.SequenceNames) (*models.SyncResult, error) {
	s.called = true
	s.sections = sections
	s.questions = questions
	s.key = key
	if s.err != nil {
		return nil, s.err
	}
	return &models.SyncResult{
		InsertedAnswers:   len(sections),
		InsertedQuestions: len(sections),
	}, nil
}

const pipelineTestHTML = `
	<h1>Getting Started</h1><p>Welcome.</p>
	<h2>Installation</h2><p>Run it.</p>
	<h1>Troubleshooting</h1><p>Logs.</p>`

func testRunRequest(t *testing.T) services.RunRequest {
	t.Helper()
	dir := t.TempDir()
	return services.RunRequest{
		Docx:          []byte("docx-bytes"),
		Key:           testKey(),
		FragmentsPath: filepath.Join(dir, "fragments.html"),
		QuestionsPath: filepath.Join(dir, "questions.jsonl"),
	}
}

func newTestPipeline(conv services.Converter, gen services.QuestionGenerator, syn services.Synchronizer) services.Pipeline {
	return NewPipelineService(conv, gen, syn, artifact.NewWriter(testLogger()), PipelineConfig{
		GenerationParallelism: 2,
	}, testLogger())
}

func TestPipeline_DryRunWritesArtifacts(t *testing.T) {
	syncFake := &fakeSynchronizer{}
	p := newTestPipeline(&fakeConverter{html: pipelineTestHTML}, &fakeGenerator{}, syncFake)

	req := testRunRequest(t)
	result, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.SectionCount != 3 {
		t.Errorf("SectionCount = %d, want 3", result.SectionCount)
	}
	if result.Sync != nil {
		t.Error("dry run produced a sync result")
	}
	if syncFake.called {
		t.Error("dry run called the synchronizer")
	}
	if result.RunID == "" {
		t.Error("missing run id")
	}
	if result.Warnings == nil {
		t.Error("warnings must be an empty slice, not nil")
	}

	fragments, err := os.ReadFile(req.FragmentsPath)
	if err != nil {
		t.Fatalf("fragments not written: %v", err)
	}
	if !strings.Contains(string(fragments), `id="getting-started"`) {
		t.Error("fragments file missing first section")
	}
	questions, err := os.ReadFile(req.QuestionsPath)
	if err != nil {
		t.Fatalf("questions not written: %v", err)
	}
	if got := strings.Count(strings.TrimSpace(string(questions)), "\n") + 1; got != 3 {
		t.Errorf("questions file has %d lines, want 3", got)
	}
}

func TestPipeline_WriteToStoreCallsSynchronizer(t *testing.T) {
	syncFake := &fakeSynchronizer{}
	p := newTestPipeline(&fakeConverter{html: pipelineTestHTML}, &fakeGenerator{}, syncFake)

	req := testRunRequest(t)
	req.WriteToStore = true
	result, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !syncFake.called {
		t.Fatal("synchronizer was not called")
	}
	if len(syncFake.sections) != 3 {
		t.Errorf("synchronizer got %d sections, want 3", len(syncFake.sections))
	}
	if syncFake.key != req.Key {
		t.Errorf("synchronizer key = %+v, want %+v", syncFake.key, req.Key)
	}
	if result.Sync == nil || result.Sync.InsertedAnswers != 3 {
		t.Errorf("sync result = %+v, want 3 inserted answers", result.Sync)
	}
}

func TestPipeline_GenerationProducesQuestionSets(t *testing.T) {
	gen := &fakeGenerator{
		responses: map[string][]string{
			"Getting Started": {"How do I start?", "Where do I begin?", "What is the first step?"},
		},
	}
	p := newTestPipeline(&fakeConverter{html: pipelineTestHTML}, gen, &fakeSynchronizer{})

	req := testRunRequest(t)
	req.GenerateQuestions = true
	req.QMin, req.QMax, req.QMaxWords = 1, 8, 12
	result, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(gen.requested) != 3 {
		t.Errorf("generator called for %d sections, want 3", len(gen.requested))
	}
	if len(result.QuestionSets) != 3 {
		t.Fatalf("got %d question sets, want 3", len(result.QuestionSets))
	}
	if result.QuestionSets[0].Slug != "getting-started" {
		t.Errorf("question sets out of document order: first slug = %q", result.QuestionSets[0].Slug)
	}
	if len(result.QuestionSets[0].Alternatives) != 3 {
		t.Errorf("first set has %d alternatives, want 3", len(result.QuestionSets[0].Alternatives))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
}

func TestPipeline_GenerationFailureIsAWarning(t *testing.T) {
	gen := &fakeGenerator{failFor: map[string]bool{"Installation": true}}
	syncFake := &fakeSynchronizer{}
	p := newTestPipeline(&fakeConverter{html: pipelineTestHTML}, gen, syncFake)

	req := testRunRequest(t)
	req.GenerateQuestions = true
	req.QMin, req.QMax, req.QMaxWords = 1, 8, 12
	req.WriteToStore = true
	result, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v, generation failures must not abort the run", err)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}
	if result.Warnings[0].Slug != "installation" {
		t.Errorf("warning slug = %q, want installation", result.Warnings[0].Slug)
	}

	// the failed section still reaches persistence, just without a set
	if len(syncFake.sections) != 3 {
		t.Errorf("synchronizer got %d sections, want all 3", len(syncFake.sections))
	}
	if _, ok := syncFake.questions["installation"]; ok {
		t.Error("failed section must not have a question set")
	}
	if _, ok := syncFake.questions["getting-started"]; !ok {
		t.Error("successful section lost its question set")
	}
}

func TestPipeline_LimitRestrictsGeneration(t *testing.T) {
	gen := &fakeGenerator{}
	p := newTestPipeline(&fakeConverter{html: pipelineTestHTML}, gen, &fakeSynchronizer{})

	req := testRunRequest(t)
	req.GenerateQuestions = true
	req.QMin, req.QMax, req.QMaxWords = 1, 8, 12
	req.Limit = 1
	result, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(gen.requested) != 1 {
		t.Errorf("generator called %d times, want 1", len(gen.requested))
	}
	if gen.requested[0] != "Getting Started" {
		t.Errorf("generated for %q, want the first section", gen.requested[0])
	}
	// sections beyond the limit still appear in the artifacts
	if result.SectionCount != 3 {
		t.Errorf("SectionCount = %d, want 3", result.SectionCount)
	}
}

func TestPipeline_SyncFailureKeepsArtifacts(t *testing.T) {
	syncFake := &fakeSynchronizer{err: &domain.PersistenceError{Message: "faq sync", Err: fmt.Errorf("boom")}}
	p := newTestPipeline(&fakeConverter{html: pipelineTestHTML}, &fakeGenerator{}, syncFake)

	req := testRunRequest(t)
	req.WriteToStore = true
	_, err := p.Run(context.Background(), req)
	if err == nil {
		t.Fatal("Run() succeeded, want persistence error")
	}
	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T, want *domain.PersistenceError", err)
	}

	if _, statErr := os.Stat(req.FragmentsPath); statErr != nil {
		t.Error("fragments artifact missing after sync failure")
	}
	if _, statErr := os.Stat(req.QuestionsPath); statErr != nil {
		t.Error("questions artifact missing after sync failure")
	}
}

func TestPipeline_ConversionFailureAborts(t *testing.T) {
	p := newTestPipeline(&fakeConverter{err: &domain.ConversionError{Message: "corrupt archive"}}, &fakeGenerator{}, &fakeSynchronizer{})

	req := testRunRequest(t)
	_, err := p.Run(context.Background(), req)
	if err == nil {
		t.Fatal("Run() succeeded, want conversion error")
	}
	var cerr *domain.ConversionError
	if !errors.As(err, &cerr) {
		t.Errorf("error type = %T, want *domain.ConversionError", err)
	}

	if _, statErr := os.Stat(req.FragmentsPath); statErr == nil {
		t.Error("artifacts written despite conversion failure")
	}
}

func TestPipeline_Validation(t *testing.T) {
	p := newTestPipeline(&fakeConverter{html: pipelineTestHTML}, &fakeGenerator{}, &fakeSynchronizer{})

	tests := []struct {
		name   string
		mutate func(*services.RunRequest)
	}{
		{
			name:   "empty document",
			mutate: func(r *services.RunRequest) { r.Docx = nil },
		},
		{
			name:   "unknown answer language",
			mutate: func(r *services.RunRequest) { r.Key.Answers = "FR" },
		},
		{
			name:   "negative console id",
			mutate: func(r *services.RunRequest) { r.Key.ConsoleID = -1 },
		},
		{
			name:   "missing artifact paths",
			mutate: func(r *services.RunRequest) { r.FragmentsPath = "" },
		},
		{
			name: "qmax below qmin",
			mutate: func(r *services.RunRequest) {
				r.GenerateQuestions = true
				r.QMin, r.QMax, r.QMaxWords = 5, 2, 12
			},
		},
		{
			name: "zero max words",
			mutate: func(r *services.RunRequest) {
				r.GenerateQuestions = true
				r.QMin, r.QMax, r.QMaxWords = 1, 3, 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRunRequest(t)
			tt.mutate(&req)

			_, err := p.Run(context.Background(), req)
			if err == nil {
				t.Fatal("Run() succeeded, want validation error")
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error type = %T, want *domain.ValidationError", err)
			}
		})
	}
}

func TestPipeline_ArabicRunIsRTL(t *testing.T) {
	syncFake := &fakeSynchronizer{}
	p := newTestPipeline(&fakeConverter{html: "<h1>التسجيل</h1><p>الخطوات</p>"}, &fakeGenerator{}, syncFake)

	req := testRunRequest(t)
	req.Key.Answers = models.AnswerArabic
	req.WriteToStore = true
	_, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(syncFake.sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(syncFake.sections))
	}
	if syncFake.sections[0].Direction != models.DirectionRTL {
		t.Errorf("direction = %q, want rtl", syncFake.sections[0].Direction)
	}
}
