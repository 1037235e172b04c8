package agent

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/mwantia/fabric/pkg/container"

	config "github.com/clipdex/clipdex/internal/config/server"
	"github.com/clipdex/clipdex/internal/index"
	"github.com/clipdex/clipdex/pkg/db/store"
	"github.com/clipdex/clipdex/pkg/log"
)

// ClipdexAgent owns the long-running catalog process: the metadata store,
// the similarity index rebuilt from it, and the service container tying
// them together.
type ClipdexAgent struct {
	mutex sync.RWMutex
	wait  sync.WaitGroup

	cfg   *config.BaseServerConfig
	sc    *container.ServiceContainer
	log   log.LoggerService
	store *store.GormStore
	index *index.EmbeddingIndex
}

func NewAgent(cfg *config.BaseServerConfig) *ClipdexAgent {
	return &ClipdexAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("clipdex", cfg.Log),
	}
}

// NewMetadataStore opens the store selected by the metadata configuration.
// Shared by the agent and the one-shot CLI commands.
func NewMetadataStore(cfg config.MetadataServerConfig) (*store.GormStore, error) {
	return store.NewStore(store.Config{
		Driver: cfg.Type,
		Path:   cfg.SQLite.Path,
		DSN:    cfg.Postgres.DSN,
	})
}

func (ca *ClipdexAgent) setupServices(ctx context.Context) error {
	s, err := NewMetadataStore(ca.cfg.Metadata)
	if err != nil {
		return err
	}
	if err := s.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect metadata store: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate metadata store: %w", err)
	}
	ca.store = s

	ca.index = index.New(s, index.Config{
		DegreeBound:         ca.cfg.Index.DegreeBound,
		ConstructionBreadth: ca.cfg.Index.ConstructionBreadth,
		SearchBreadth:       ca.cfg.Index.SearchBreadth,
	}, ca.log.Named("index"))

	if err := ca.index.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to rebuild similarity index: %w", err)
	}

	errs := container.Errors{}

	ca.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](ca.sc,
		container.With[log.LoggerService](),
		container.WithInstance(ca.log)))

	ca.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[store.GormStore](ca.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(ca.store)))

	ca.log.Debug("Registering 'EmbeddingIndex'...")
	errs.Add(container.Register[index.EmbeddingIndex](ca.sc,
		container.WithInstance(ca.index)))

	return errs.Errors()
}

func (ca *ClipdexAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	ca.mutex.Lock()

	if err := ca.setupServices(ctx); err != nil {
		ca.mutex.Unlock()
		return err
	}

	ca.mutex.Unlock()

	ca.log.Info("Agent ready (%d embeddings indexed)", ca.index.Size())
	<-ctx.Done()

	timeout, err := time.ParseDuration(ca.cfg.ShutdownTimeout)
	if err != nil {
		// Set default of 60 seconds if error
		timeout = 60 * time.Second
	}

	shutdown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := ca.sc.Cleanup(shutdown); err != nil {
		return fmt.Errorf("failed to complete service container cleanup: %w", err)
	}

	if ca.store != nil {
		if err := ca.store.Close(); err != nil {
			ca.log.Warn("Failed to close metadata store: %v", err)
		}
	}

	ca.wait.Wait()
	return nil
}
