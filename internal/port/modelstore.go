package port

import "time"

// ModelRecord is a serialized classifier model as kept by a ModelStore.
type ModelRecord struct {
	Name string
	// State is the JSON text produced by the classifier's ToJSON.
	State []byte
	// ConfigHash identifies the tokenizer settings the model was trained
	// under.
	ConfigHash string
	UpdatedAt  time.Time
}

// ModelStore persists serialized classifier models by name.
type ModelStore interface {
	// Save stores a model, replacing any previous one with the same name.
	Save(rec ModelRecord) error

	// Load returns a stored model. A missing model yields an error wrapping
	// the store's not-found sentinel.
	Load(name string) (ModelRecord, error)

	// Delete removes a model. Deleting a missing model is not an error.
	Delete(name string) error

	// List returns the stored model names in ascending order.
	List() ([]string, error)

	Close() error
}

// Walker lists corpus files under a root directory.
type Walker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	RelPath string
	ModTime int64
	Size    int64
}
