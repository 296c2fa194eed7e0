package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"bayes/internal/domain"
	"bayes/internal/port"
)

var (
	bucketModels = []byte("models")
	bucketStates = []byte("states")
	bucketMeta   = []byte("meta")
)

// ErrModelNotFound is returned by Load when no model has the requested name.
var ErrModelNotFound = domain.ErrModelNotFound

// BoltStore keeps models in a bbolt file: metadata in the models bucket, the
// JSON state in the states bucket.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketModels, bucketStates, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type modelMeta struct {
	ConfigHash string `json:"config_hash"`
	UpdatedAt  int64  `json:"updated_at"`
	Size       int    `json:"size"`
}

func (s *BoltStore) Save(rec port.ModelRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("model name is empty")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := modelMeta{
			ConfigHash: rec.ConfigHash,
			UpdatedAt:  rec.UpdatedAt.Unix(),
			Size:       len(rec.State),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketModels).Put([]byte(rec.Name), data); err != nil {
			return err
		}
		return tx.Bucket(bucketStates).Put([]byte(rec.Name), rec.State)
	})
}

func (s *BoltStore) Load(name string) (port.ModelRecord, error) {
	var rec port.ModelRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketModels).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
		var meta modelMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("failed to decode model metadata: %w", err)
		}
		state := tx.Bucket(bucketStates).Get([]byte(name))
		rec = port.ModelRecord{
			Name:       name,
			State:      append([]byte(nil), state...),
			ConfigHash: meta.ConfigHash,
			UpdatedAt:  time.Unix(meta.UpdatedAt, 0),
		}
		return nil
	})
	return rec, err
}

func (s *BoltStore) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketModels).Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket(bucketStates).Delete([]byte(name))
	})
}

func (s *BoltStore) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketModels).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
