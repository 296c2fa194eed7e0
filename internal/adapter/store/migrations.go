package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"bayes/config"
	"bayes/internal/port"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var keySchemaVersion = []byte("schema_version")

// SchemaVersioner is implemented by stores that track their schema version.
type SchemaVersioner interface {
	SchemaVersion() (int, error)
	SetSchemaVersion(v int) error
}

// SchemaVersion returns the stored schema version, 0 for a new database.
func (s *BoltStore) SchemaVersion() (int, error) {
	var version int
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &version); err != nil {
			version = 1
		}
		return nil
	})
	return version, err
}

func (s *BoltStore) SetSchemaVersion(v int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}

// ComputeConfigHash computes a hash of the tokenizer settings. A model
// trained under a different hash tokenizes text differently from the current
// configuration.
func ComputeConfigHash(cfg config.TokenizerConfig) string {
	relevant := struct {
		Stemming  bool   `json:"stemming"`
		Language  string `json:"language"`
		Stopwords bool   `json:"stopwords"`
		Normalize bool   `json:"normalize"`
	}{
		Stemming:  cfg.Stemming,
		Stopwords: cfg.Stopwords,
		Normalize: cfg.Normalize,
	}
	// the language only matters when stemming
	if cfg.Stemming {
		relevant.Language = strings.ToLower(cfg.Language)
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	Incompatible   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration checks whether the store schema needs upgrading.
func CheckMigration(s SchemaVersioner) (*MigrationResult, error) {
	version, err := s.SchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	result := &MigrationResult{
		OldVersion: version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", version, CurrentSchemaVersion)
	case version > CurrentSchemaVersion:
		result.Incompatible = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
	}

	return result, nil
}

// Migrate upgrades the bolt schema to CurrentSchemaVersion.
func (s *BoltStore) Migrate() error {
	result, err := CheckMigration(s)
	if err != nil {
		return err
	}
	if result.Incompatible {
		return fmt.Errorf("failed to migrate: %s", result.Reason)
	}

	for v := result.OldVersion; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return s.SetSchemaVersion(CurrentSchemaVersion)
}

// runMigration runs a specific version migration.
func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 1 && to == 2:
		// v1 kept the state inline in the models bucket
		return s.db.Update(func(tx *bbolt.Tx) error {
			models := tx.Bucket(bucketModels)
			states := tx.Bucket(bucketStates)
			type inlineModel struct {
				ConfigHash string          `json:"config_hash"`
				UpdatedAt  int64           `json:"updated_at"`
				State      json.RawMessage `json:"state"`
			}
			moved := make(map[string]modelMeta)
			err := models.ForEach(func(k, v []byte) error {
				var old inlineModel
				if err := json.Unmarshal(v, &old); err != nil || old.State == nil {
					return nil
				}
				if err := states.Put(k, old.State); err != nil {
					return err
				}
				moved[string(k)] = modelMeta{
					ConfigHash: old.ConfigHash,
					UpdatedAt:  old.UpdatedAt,
					Size:       len(old.State),
				}
				return nil
			})
			if err != nil {
				return err
			}
			for name, meta := range moved {
				data, err := json.Marshal(meta)
				if err != nil {
					return err
				}
				if err := models.Put([]byte(name), data); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return nil
	}
}

// IsStale reports whether rec was trained under tokenizer settings other than
// cfg. Records without a hash are never stale.
func IsStale(rec port.ModelRecord, cfg config.TokenizerConfig) (bool, string) {
	if rec.ConfigHash == "" {
		return false, ""
	}
	if current := ComputeConfigHash(cfg); rec.ConfigHash != current {
		return true, fmt.Sprintf("model %q was trained with tokenizer settings %s, current settings are %s",
			rec.Name, rec.ConfigHash, current)
	}
	return false, ""
}
