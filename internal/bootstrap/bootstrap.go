// Package bootstrap wires infrastructure into the use cases so both
// binaries share one composition root.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/avoskres/plainlegal/internal/config"
	"github.com/avoskres/plainlegal/internal/core/ports"
	"github.com/avoskres/plainlegal/internal/core/usecase"
	"github.com/avoskres/plainlegal/internal/infrastructure/analysis"
	"github.com/avoskres/plainlegal/internal/infrastructure/entities"
	"github.com/avoskres/plainlegal/internal/infrastructure/extractor"
	"github.com/avoskres/plainlegal/internal/infrastructure/llm/gemini"
	"github.com/avoskres/plainlegal/internal/infrastructure/llm/openaicompat"
	"github.com/avoskres/plainlegal/internal/infrastructure/queue/nats"
	"github.com/avoskres/plainlegal/internal/infrastructure/repository/cached"
	"github.com/avoskres/plainlegal/internal/infrastructure/repository/postgres"
	"github.com/avoskres/plainlegal/internal/infrastructure/resilience"
	"github.com/avoskres/plainlegal/internal/infrastructure/sectioning"
	"github.com/avoskres/plainlegal/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Ingestor      *usecase.IngestDocumentUseCase
	Processor     *usecase.ProcessDocumentUseCase
	Reader        *usecase.ReadDocumentsUseCase
	Summarizer    *usecase.SummarizeDocumentUseCase
	Resimplifier  *usecase.ResimplifyClauseUseCase
	RiskReporter  *usecase.RiskReportUseCase
	QA            *usecase.AnswerQuestionUseCase
	Conversations *usecase.ManageConversationsUseCase
	Deadlines     *usecase.ReportDeadlinesUseCase

	// Documents is exposed for the worker's stale-processing sweep.
	Documents ports.DocumentRepository
	Queue     ports.MessageQueue

	closers []func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	app.closers = append(app.closers, db.Close)
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	docRepo := postgres.NewDocumentRepository(db)
	clauseRepo := cached.NewClauseRepository(
		postgres.NewClauseRepository(db),
		time.Duration(cfg.ClauseCacheTTLSecs)*time.Second,
	)
	convRepo := postgres.NewConversationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	app.closers = append(app.closers, func() error {
		queue.Close()
		return nil
	})

	generator, err := newGenerator(cfg, executor)
	if err != nil {
		app.close()
		return nil, err
	}

	typeClassifier := analysis.NewTypeClassifier(generator)
	annotator := analysis.NewAnnotator(generator)
	simplifier := analysis.NewSimplifier(generator)
	riskAnalyzer := analysis.NewRiskAnalyzer(generator)
	answerer := analysis.NewAnswerer(generator)

	app.Documents = docRepo
	app.Queue = queue

	app.Ingestor = usecase.NewIngestDocumentUseCase(docRepo, storage, queue, cfg.MaxUploadBytes)
	app.Processor = usecase.NewProcessDocumentUseCase(
		docRepo,
		clauseRepo,
		extractor.New(storage),
		sectioning.Normalize,
		sectioning.NewSplitter(),
		entities.NewExtractor(),
		typeClassifier,
		annotator,
		simplifier,
		riskAnalyzer,
	)
	app.Reader = usecase.NewReadDocumentsUseCase(docRepo, clauseRepo, storage)
	app.Summarizer = usecase.NewSummarizeDocumentUseCase(docRepo, clauseRepo, simplifier)
	app.Resimplifier = usecase.NewResimplifyClauseUseCase(docRepo, clauseRepo, simplifier)
	app.RiskReporter = usecase.NewRiskReportUseCase(docRepo, clauseRepo, riskAnalyzer)
	app.QA = usecase.NewAnswerQuestionUseCase(docRepo, clauseRepo, convRepo, answerer)
	app.Conversations = usecase.NewManageConversationsUseCase(convRepo)
	app.Deadlines = usecase.NewReportDeadlinesUseCase(docRepo, clauseRepo)

	return app, nil
}

func newGenerator(cfg config.Config, executor *resilience.Executor) (ports.TextGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.New(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, gemini.Options{
			RequestsPerMinute:  cfg.GeminiRPM,
			ResilienceExecutor: executor,
		}), nil
	case "openai":
		client, err := openaicompat.New(cfg.OpenAIAPIKey, openaicompat.Options{
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// Close releases infrastructure in reverse acquisition order.
func (a *App) Close() error {
	return a.close()
}

func (a *App) close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
