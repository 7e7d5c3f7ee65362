package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"faqforge/internal/artifact"
	"faqforge/internal/config"
	"faqforge/internal/convert"
	"faqforge/internal/domain/models"
	"faqforge/internal/domain/services"
	"faqforge/internal/generate"
	"faqforge/internal/repository/postgres"
	"faqforge/internal/service"
)

// noopSynchronizer backs dry runs so the pipeline can be wired without a
// database connection.
type noopSynchronizer struct{}

func (noopSynchronizer) Sync(context.Context, []models.FaqSection, map[string]models.QuestionSet, models.TargetingKey, models.SequenceNames) (*models.SyncResult, error) {
	return nil, fmt.Errorf("no database configured")
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var (
		in        = flag.String("in", "", "path to the input .docx file (required)")
		outDir    = flag.String("out", cfg.OutputDir, "directory for output artifacts")
		fragments = flag.String("fragments", "", "fragments output path (default <out>/fragments.html)")
		questions = flag.String("questions-jsonl", "", "questions output path (default <out>/questions.jsonl)")

		genQuestions = flag.Bool("gen-questions", false, "generate question alternatives per section")
		qmin         = flag.Int("qmin", cfg.QMin, "minimum questions per section")
		qmax         = flag.Int("qmax", cfg.QMax, "maximum questions per section")
		qMaxWords    = flag.Int("q-max-words", cfg.QMaxWords, "maximum words per question")
		limit        = flag.Int("limit", 0, "generate questions for only the first N sections (0 = all)")

		dbInsert   = flag.Bool("db-insert", false, "replace the stored FAQ set for the targeting key")
		console    = flag.Int("console", 0, "console id")
		subConsole = flag.Int("sub-console", 0, "sub-console id")
		country    = flag.Int("country", 0, "country id")
		inst       = flag.Int("inst", 0, "institution id")
		lang       = flag.Int("lang", 1, "language id")
		bankMap    = flag.String("bank-map", "", "bank map code")
		answersTo  = flag.String("answers-to", string(models.AnswerOther), "answer column: OTH or AR")
		seqAns     = flag.String("seq-ans", cfg.SeqAnswers, "answers sequence name (blank = identity column)")
		seqFaq     = flag.String("seq-faq", cfg.SeqQuestions, "questions sequence name (blank = identity column)")

		timeout = flag.Duration("timeout", cfg.RunTimeout, "end-to-end run timeout")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	docx, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	if *fragments == "" {
		*fragments = filepath.Join(*outDir, "fragments.html")
	}
	if *questions == "" {
		*questions = filepath.Join(*outDir, "questions.jsonl")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var synchronizer services.Synchronizer = noopSynchronizer{}
	if *dbInsert {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connect database: %v", err)
		}
		defer pool.Close()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		synchronizer = service.NewSynchronizer(
			postgres.NewFAQRepository(repoConfig),
			postgres.NewTransactionManager(pool, logger),
			logger,
		)
	}

	generator, err := generate.NewClient(generate.Config{
		BaseURL: cfg.LMBaseURL,
		APIKey:  cfg.LMAPIKey,
		Model:   cfg.LMModel,
		Timeout: cfg.LMTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("create generator client: %v", err)
	}

	pipeline := service.NewPipelineService(
		convert.NewDocxConverter(logger),
		generator,
		synchronizer,
		artifact.NewWriter(logger),
		service.PipelineConfig{GenerationParallelism: cfg.GenParallelism},
		logger,
	)

	start := time.Now()
	result, err := pipeline.Run(ctx, services.RunRequest{
		Docx: docx,
		Key: models.TargetingKey{
			ConsoleID:    *console,
			SubConsoleID: *subConsole,
			Country:      *country,
			Institution:  *inst,
			LangID:       *lang,
			BankMap:      *bankMap,
			Answers:      models.AnswerLanguage(*answersTo),
		},
		GenerateQuestions: *genQuestions,
		QMin:              *qmin,
		QMax:              *qmax,
		QMaxWords:         *qMaxWords,
		Limit:             *limit,
		WriteToStore:      *dbInsert,
		FragmentsPath:     *fragments,
		QuestionsPath:     *questions,
		Sequences: models.SequenceNames{
			Answers:   *seqAns,
			Questions: *seqFaq,
		},
	})
	if err != nil {
		log.Fatalf("pipeline run: %v", err)
	}

	logger.Info("run finished", "elapsed", time.Since(start))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}
