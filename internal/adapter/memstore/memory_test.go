package memstore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bayes/internal/domain"
	"bayes/internal/port"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	state := []byte(`{"totalDocuments":1}`)
	if err := s.Save(port.ModelRecord{Name: "b", State: state, ConfigHash: "h"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Save(port.ModelRecord{Name: "a", State: []byte("{}")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the store owns its copy
	state[0] = 'X'

	rec, err := s.Load("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(rec.State) != `{"totalDocuments":1}` {
		t.Errorf("expected stored state to be unaffected, got %s", rec.State)
	}
	if rec.ConfigHash != "h" || rec.UpdatedAt.IsZero() {
		t.Errorf("unexpected record metadata: %+v", rec)
	}

	names, _ := s.List()
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Load("b"); !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
	if err := s.Save(port.ModelRecord{}); err == nil {
		t.Error("expected error for empty name")
	}
}
