package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"launchscanner/internal/annotate"
	"launchscanner/internal/config"
	"launchscanner/internal/infrastructure/llm"
	"launchscanner/internal/infrastructure/parser"
	"launchscanner/internal/infrastructure/storage"
	"launchscanner/internal/logging"
	"launchscanner/internal/ports"
	"launchscanner/internal/store"
	"launchscanner/internal/usecase"
)

// Application wires configuration into annotators, stores, and collaborators.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *annotate.Registry
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var chatClient ports.ChatClient
	if cfg.OpenAI.APIKey != "" {
		chatClient = llm.NewChatGPTClient(cfg.OpenAI)
	}

	pause := cfg.Pipeline.Pause()

	registry := annotate.NewRegistry()
	registry.Register(annotate.NewHeadlineFetcher(nil, chatClient, pause))
	registry.Register(annotate.NewLanguageDetector(chatClient, pause))
	registry.Register(annotate.NewMetadataExtractor(chatClient, pause))
	registry.Register(annotate.NewSentimentScorer())

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		registry: registry,
	}
}

// AnnotatorNames lists the registered annotators for CLI help.
func (a *Application) AnnotatorNames() []string {
	return a.registry.Names()
}

// RequiresAPIKey reports whether the named annotator talks to the chat
// service; local annotators run without a credential.
func (a *Application) RequiresAPIKey(name string) bool {
	switch name {
	case "headline", "language", "metadata":
		return true
	}
	return false
}

// Annotate runs one enrichment pass with the named annotator. In test mode
// the pipeline reads the fixture input and writes the fixture output instead
// of the production store.
func (a *Application) Annotate(ctx context.Context, name string, testMode bool) (usecase.Summary, error) {
	annotator, err := a.registry.Resolve(name)
	if err != nil {
		return usecase.Summary{}, err
	}

	launchStore := a.launchStore(testMode)
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:     launchStore,
		Annotator: annotator,
		Logger:    a.logger.With("component", "pipeline", "annotator", name),
	})

	return pipeline.Run(ctx)
}

// Fetch scrapes the leaderboard page and overwrites the store with the
// extracted launches.
func (a *Application) Fetch(ctx context.Context) (int, error) {
	scanner := parser.NewLeaderboardScanner(nil, a.cfg.Leaderboard.Limit)
	launches, err := scanner.Scan(ctx, a.cfg.Leaderboard.URL)
	if err != nil {
		return 0, fmt.Errorf("scan leaderboard: %w", err)
	}

	launchStore := a.launchStore(false)
	if err := launchStore.Save(launches); err != nil {
		return 0, fmt.Errorf("save launches: %w", err)
	}

	a.logger.Info("leaderboard fetched", "records", len(launches), "store", launchStore.Path())
	return len(launches), nil
}

// Export mirrors the store into Postgres.
func (a *Application) Export(ctx context.Context) (int, error) {
	if a.cfg.Database.DSN == "" {
		return 0, fmt.Errorf("database DSN is not configured")
	}

	launches, err := a.launchStore(false).Load()
	if err != nil {
		return 0, fmt.Errorf("load store: %w", err)
	}

	db, err := sql.Open("postgres", a.cfg.Database.DSN)
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repository := storage.NewPostgresRepository(db)
	if err := repository.UpsertLaunches(ctx, launches); err != nil {
		return 0, err
	}

	a.logger.Info("store exported", "records", len(launches))
	return len(launches), nil
}

func (a *Application) launchStore(testMode bool) *store.JSONStore {
	if testMode {
		return store.NewSplitJSONStore(a.cfg.Store.TestIn, a.cfg.Store.TestOut)
	}
	return store.NewJSONStore(a.cfg.Store.Path)
}
