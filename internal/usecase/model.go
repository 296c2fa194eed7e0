package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"bayes/config"
	"bayes/internal/adapter/analyzer"
	"bayes/internal/adapter/classifier"
	"bayes/internal/adapter/store"
	"bayes/internal/domain"
	"bayes/internal/logging"
	"bayes/internal/port"
)

// NewTokenizer builds the tokenizer described by cfg.
func NewTokenizer(cfg config.TokenizerConfig) *analyzer.Tokenizer {
	var opts []analyzer.Option
	if cfg.Normalize {
		opts = append(opts, analyzer.WithNormalization())
	}
	if cfg.Stopwords {
		opts = append(opts, analyzer.WithStopwords())
	}
	if cfg.Stemming {
		opts = append(opts, analyzer.WithStemming(cfg.Language))
	}
	return analyzer.NewTokenizer(opts...)
}

// ModelUseCase loads and saves named classifier models.
type ModelUseCase struct {
	store           port.ModelStore
	tokenizer       port.Tokenizer
	tokenizerConfig config.TokenizerConfig
	log             logr.Logger
}

// NewModelUseCase creates a new model use case. Models it opens tokenize
// with the tokenizer built from tokCfg.
func NewModelUseCase(modelStore port.ModelStore, tokCfg config.TokenizerConfig, log logr.Logger) *ModelUseCase {
	return &ModelUseCase{
		store:           modelStore,
		tokenizer:       NewTokenizer(tokCfg),
		tokenizerConfig: tokCfg,
		log:             log,
	}
}

// ModelStatus describes a stored model.
type ModelStatus struct {
	Name        string
	UpdatedAt   time.Time
	Info        domain.ModelInfo
	Stale       bool
	StaleReason string
}

// Open returns the named model, or an empty model when none is stored yet.
// A model trained under other tokenizer settings is returned with a warning.
func (u *ModelUseCase) Open(name string) (*classifier.Model, error) {
	m := classifier.New(u.tokenizer)

	rec, err := u.store.Load(name)
	if errors.Is(err, domain.ErrModelNotFound) {
		u.log.V(logging.VERBOSE).Info("Starting new model", "model", name)
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", name, err)
	}

	if stale, reason := store.IsStale(rec, u.tokenizerConfig); stale {
		u.log.Info("Model is stale, retrain it for accurate results", "model", name, "reason", reason)
	}

	if err := m.FromJSON(rec.State); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", name, err)
	}
	return m, nil
}

// Save stores m under name, stamped with the current tokenizer settings.
func (u *ModelUseCase) Save(name string, m *classifier.Model) error {
	state, err := m.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode model %s: %w", name, err)
	}
	return u.saveState(name, state)
}

func (u *ModelUseCase) saveState(name string, state []byte) error {
	rec := port.ModelRecord{
		Name:       name,
		State:      state,
		ConfigHash: store.ComputeConfigHash(u.tokenizerConfig),
		UpdatedAt:  time.Now(),
	}
	if err := u.store.Save(rec); err != nil {
		return fmt.Errorf("failed to save model %s: %w", name, err)
	}
	u.log.V(logging.VERBOSE).Info("Saved model", "model", name, "bytes", len(state))
	return nil
}

// Export returns the JSON state of a stored model.
func (u *ModelUseCase) Export(name string) ([]byte, error) {
	rec, err := u.store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", name, err)
	}
	return rec.State, nil
}

// Import validates a JSON state and stores it under name. The stored form is
// re-encoded, so unknown fields are dropped.
func (u *ModelUseCase) Import(name string, data []byte) (*classifier.Model, error) {
	m := classifier.New(u.tokenizer)
	if err := m.FromJSON(data); err != nil {
		return nil, fmt.Errorf("failed to import model %s: %w", name, err)
	}
	if err := u.Save(name, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a stored model.
func (u *ModelUseCase) Delete(name string) error {
	if err := u.store.Delete(name); err != nil {
		return fmt.Errorf("failed to delete model %s: %w", name, err)
	}
	return nil
}

// List describes every stored model.
func (u *ModelUseCase) List() ([]ModelStatus, error) {
	names, err := u.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	statuses := make([]ModelStatus, 0, len(names))
	for _, name := range names {
		rec, err := u.store.Load(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load model %s: %w", name, err)
		}
		m := classifier.New(u.tokenizer)
		if err := m.FromJSON(rec.State); err != nil {
			u.log.Error(err, "Skipping undecodable model", "model", name)
			continue
		}
		stale, reason := store.IsStale(rec, u.tokenizerConfig)
		statuses = append(statuses, ModelStatus{
			Name:        name,
			UpdatedAt:   rec.UpdatedAt,
			Info:        m.Info(),
			Stale:       stale,
			StaleReason: reason,
		})
	}
	return statuses, nil
}
