package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"faqforge/internal/artifact"
	"faqforge/internal/domain"
	"faqforge/internal/domain/models"
	"faqforge/internal/domain/services"
	"faqforge/internal/generate"
	"faqforge/internal/split"
)

// PipelineConfig tunes pipeline behavior.
type PipelineConfig struct {
	// GenerationParallelism bounds concurrent generator requests. Sections
	// have no ordering dependency at that stage; results are re-joined into
	// document order before artifacts and persistence.
	GenerationParallelism int
	// ContextMaxChars caps the compacted section body passed as prompt context.
	ContextMaxChars int
}

// pipelineService implements the Pipeline interface.
type pipelineService struct {
	converter    services.Converter
	generator    services.QuestionGenerator
	synchronizer services.Synchronizer
	artifacts    *artifact.Writer
	sanitizer    *bluemonday.Policy
	parallelism  int
	contextChars int
	logger       *slog.Logger
}

// NewPipelineService creates the pipeline orchestrator.
func NewPipelineService(
	converter services.Converter,
	generator services.QuestionGenerator,
	synchronizer services.Synchronizer,
	artifacts *artifact.Writer,
	cfg PipelineConfig,
	logger *slog.Logger,
) services.Pipeline {
	if cfg.GenerationParallelism < 1 {
		cfg.GenerationParallelism = 1
	}
	if cfg.ContextMaxChars < 1 {
		cfg.ContextMaxChars = 1500
	}
	return &pipelineService{
		converter:    converter,
		generator:    generator,
		synchronizer: synchronizer,
		artifacts:    artifacts,
		sanitizer:    newSanitizer(),
		parallelism:  cfg.GenerationParallelism,
		contextChars: cfg.ContextMaxChars,
		logger:       logger,
	}
}

// newSanitizer builds the policy applied to converter output before
// splitting. Data-URI images survive because the converter inlines media.
func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	return p
}

// Run executes one document-to-FAQ run: convert, split, optionally generate
// questions, write artifacts, and (unless dry-run) sync the store. Output
// artifacts are written even when the subsequent sync fails - they are a
// diagnostic aid, not part of the transactional boundary.
func (s *pipelineService) Run(ctx context.Context, req services.RunRequest) (*models.PipelineResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := s.logger.With("run_id", runID)
	logger.Info("pipeline run starting",
		"console", req.Key.ConsoleID,
		"sub_console", req.Key.SubConsoleID,
		"answers_to", req.Key.Answers,
		"generate_questions", req.GenerateQuestions,
		"write_to_store", req.WriteToStore,
	)

	rawHTML, err := s.converter.Convert(ctx, req.Docx)
	if err != nil {
		var convErr *domain.ConversionError
		if errors.As(err, &convErr) {
			return nil, err
		}
		return nil, &domain.ConversionError{Message: "convert docx", Err: err}
	}

	sections, err := split.Split(s.sanitizer.Sanitize(rawHTML), req.Key.Answers.Direction())
	if err != nil {
		return nil, err
	}
	logger.Info("document split", "sections", len(sections))

	sets := make(map[string]models.QuestionSet)
	warnings := []models.Warning{}
	if req.GenerateQuestions {
		sets, warnings, err = s.generateAll(ctx, logger, sections, req)
		if err != nil {
			return nil, err
		}
	}

	if err := s.artifacts.WriteFragments(req.FragmentsPath, sections); err != nil {
		return nil, err
	}
	if err := s.artifacts.WriteQuestions(req.QuestionsPath, sections, sets); err != nil {
		return nil, err
	}

	questionSets := make([]models.QuestionSet, 0, len(sections))
	for _, sec := range sections {
		if set, ok := sets[sec.Slug]; ok {
			questionSets = append(questionSets, set)
		}
	}

	result := &models.PipelineResult{
		RunID:         runID,
		FragmentsPath: req.FragmentsPath,
		QuestionsPath: req.QuestionsPath,
		Sections:      sections,
		SectionCount:  len(sections),
		Warnings:      warnings,
		QuestionSets:  questionSets,
	}

	if req.WriteToStore {
		syncResult, err := s.synchronizer.Sync(ctx, sections, sets, req.Key, req.Sequences)
		if err != nil {
			return nil, err
		}
		result.Sync = syncResult
	}

	logger.Info("pipeline run complete",
		"sections", len(sections),
		"warnings", len(warnings),
		"persisted", result.Sync != nil,
	)
	return result, nil
}

// generateAll fans generator requests out across sections and re-joins the
// outcomes in document order. Per-section failures become warnings; only
// cancellation of the run's context aborts.
func (s *pipelineService) generateAll(
	ctx context.Context,
	logger *slog.Logger,
	sections []models.FaqSection,
	req services.RunRequest,
) (map[string]models.QuestionSet, []models.Warning, error) {
	limit := len(sections)
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}

	type outcome struct {
		alternatives []string
		err          error
	}
	outcomes := make([]outcome, limit)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := 0; i < limit; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			sec := sections[i]
			alts, err := s.generator.Generate(gctx, services.GenerationRequest{
				Heading:  sec.Heading,
				Context:  generate.CompactContext(sec.HTML, s.contextChars),
				Min:      req.QMin,
				Max:      req.QMax,
				MaxWords: req.QMaxWords,
			})
			outcomes[i] = outcome{alternatives: alts, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sets := make(map[string]models.QuestionSet, limit)
	warnings := []models.Warning{}
	for i := 0; i < limit; i++ {
		sec := sections[i]
		if outcomes[i].err != nil {
			genErr := &domain.GenerationError{Slug: sec.Slug, Err: outcomes[i].err}
			logger.Warn("question generation failed", "slug", sec.Slug, "error", outcomes[i].err)
			warnings = append(warnings, models.Warning{Slug: sec.Slug, Message: genErr.Error()})
			continue
		}
		sets[sec.Slug] = models.QuestionSet{Slug: sec.Slug, Alternatives: outcomes[i].alternatives}
		logger.Debug("questions generated", "slug", sec.Slug, "count", len(outcomes[i].alternatives))
	}
	return sets, warnings, nil
}

func validateRequest(req services.RunRequest) error {
	if err := req.Key.Validate(); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	if len(req.Docx) == 0 {
		return &domain.ValidationError{Message: "document payload is empty"}
	}
	if req.FragmentsPath == "" || req.QuestionsPath == "" {
		return &domain.ValidationError{Message: "output artifact paths are required"}
	}
	if req.GenerateQuestions {
		if req.QMin < 1 || req.QMax < req.QMin {
			return &domain.ValidationError{Message: "invalid question count bounds"}
		}
		if req.QMaxWords < 1 {
			return &domain.ValidationError{Message: "max words per question must be positive"}
		}
	}
	return nil
}
