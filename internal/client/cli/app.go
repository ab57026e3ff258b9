package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/ekoshkin/recallbox/internal/client/client"
	"github.com/ekoshkin/recallbox/internal/client/config"
	"github.com/ekoshkin/recallbox/internal/client/generate"
	"github.com/ekoshkin/recallbox/internal/client/remote"
	"github.com/ekoshkin/recallbox/internal/client/review"
	"github.com/ekoshkin/recallbox/internal/client/services"
	syncpkg "github.com/ekoshkin/recallbox/internal/client/sync"
	"github.com/ekoshkin/recallbox/internal/client/tombstone"
	"github.com/ekoshkin/recallbox/internal/logging"
)

type App struct {
	config    *config.Config
	service   services.RecordService
	scheduler *syncpkg.Scheduler
	store     *remote.HTTPStore
	generator *generate.Client
	repos     *client.Repositories
	log       logging.Logger
	reader    *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, err
	}

	store := remote.NewHTTPStore(cfg.ServerURL, cfg.RemoteTimeout)
	tracker := tombstone.NewTracker(repos.Metadata, log)
	engine := syncpkg.NewEngine(repos.Records, tracker, store, repos.Metadata, log)
	scheduler := syncpkg.NewScheduler(engine, store, cfg.SyncInterval, cfg.PingInterval, log)

	var generator *generate.Client
	var gen services.Generator
	if cfg.GeneratorAPIKey != "" {
		generator = generate.NewClient(cfg.GeneratorBaseURL, cfg.GeneratorAPIKey, cfg.GeneratorModel, 2)
		gen = generator
	}

	selector := review.NewSelector(cfg.ReviewWeights)
	service := services.NewRecordService(repos.Records, tracker, gen, selector, log)

	return &App{
		config:    cfg,
		service:   service,
		scheduler: scheduler,
		store:     store,
		generator: generator,
		repos:     repos,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the background sync scheduler and hands control to the REPL.
// It returns when the user exits; ctx cancellation stops the scheduler.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.scheduler.Run(ctx)

	a.Root(ctx)
}

func (a *App) Close() error {
	if a.generator != nil {
		_ = a.generator.Close()
	}
	_ = a.store.Close()
	return a.repos.DB.Close()
}
