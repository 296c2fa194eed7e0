package cli

import (
	"fmt"

	"bayes/config"
	"bayes/internal/adapter/classifier"
	"bayes/internal/adapter/memstore"
	"bayes/internal/adapter/store"
	"bayes/internal/port"
	"bayes/internal/usecase"
)

// session is an open model store plus the use case managing it.
type session struct {
	store  port.ModelStore
	models *usecase.ModelUseCase
	name   string
}

// openSession opens the configured model store, migrating its schema when
// needed.
func openSession() (*session, error) {
	cfg := GetConfig()
	dir := GetRootDir()

	var st port.ModelStore
	switch cfg.Model.Store {
	case "memory":
		st = memstore.NewMemoryStore()
	case "bolt", "sqlite", "":
		if err := config.EnsureDataDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create .bayes directory: %w", err)
		}
		dbPath := config.ModelDBPath(dir, cfg.Model.Store)

		var versioned interface {
			port.ModelStore
			store.SchemaVersioner
			Migrate() error
		}
		var err error
		if cfg.Model.Store == "sqlite" {
			versioned, err = store.NewSQLiteStore(dbPath)
		} else {
			versioned, err = store.NewBoltStore(dbPath)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open model store: %w", err)
		}

		migrationResult, err := store.CheckMigration(versioned)
		if err != nil {
			versioned.Close()
			return nil, fmt.Errorf("failed to check migration: %w", err)
		}
		if migrationResult.NeedsMigration {
			GetLogger().Info("Running schema migration", "reason", migrationResult.Reason)
		}
		if err := versioned.Migrate(); err != nil {
			versioned.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		st = versioned
	default:
		return nil, fmt.Errorf("unknown model store %q", cfg.Model.Store)
	}

	return &session{
		store:  st,
		models: usecase.NewModelUseCase(st, cfg.Tokenizer, GetLogger()),
		name:   cfg.Model.Name,
	}, nil
}

func (s *session) open() (*classifier.Model, error) {
	return s.models.Open(s.name)
}

func (s *session) save(m *classifier.Model) error {
	return s.models.Save(s.name, m)
}

func (s *session) Close() error {
	return s.store.Close()
}
