package classifier

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bayes/internal/domain"
	"bayes/internal/port"
)

func TestModel_JSONRoundTrip(t *testing.T) {
	trained := trainLanguages(New(nil))
	trained.Learn(port.Text("Osaka Tokyo sushi"), "japanese")

	data, err := trained.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored := New(nil)
	if err := restored.FromJSON([]byte(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(trained.State(), restored.State()); diff != "" {
		t.Errorf("state mismatch after round trip (-want +got):\n%s", diff)
	}

	docs := []string{
		"Chinese Chinese Chinese Tokyo Japan",
		"sushi in Osaka",
		"unknown words only",
		"",
	}
	formats := []domain.ProbabilityFormat{domain.FormatLog, domain.FormatProbability, domain.FormatPercentage}
	for _, doc := range docs {
		wantCategory, wantOK := trained.Categorize(port.Text(doc))
		gotCategory, gotOK := restored.Categorize(port.Text(doc))
		if wantCategory != gotCategory || wantOK != gotOK {
			t.Errorf("Categorize(%q): expected %q/%v, got %q/%v", doc, wantCategory, wantOK, gotCategory, gotOK)
		}
		for _, format := range formats {
			want := trained.Probabilities(port.Text(doc), format)
			got := restored.Probabilities(port.Text(doc), format)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Probabilities(%q, %s) mismatch (-want +got):\n%s", doc, format, diff)
			}
		}
	}
}

func TestModel_JSONKeepsCategoryOrder(t *testing.T) {
	m := New(nil).
		Learn(port.Text("shared"), "zeta").
		Learn(port.Text("shared"), "alpha")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var restored Model
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha"}, restored.Categories()); diff != "" {
		t.Errorf("category order mismatch (-want +got):\n%s", diff)
	}
	if category, _ := restored.Categorize(port.Text("shared")); category != "zeta" {
		t.Errorf("expected zeta on tie after round trip, got %s", category)
	}
}

func TestModel_JSONShape(t *testing.T) {
	m := New(nil).Learn(port.Text("buy buy now"), "spam")

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	want := []string{"categories", "docCount", "totalDocuments", "vocabulary", "vocabularySize", "wordCount", "wordFrequencyCount"}
	sort.Strings(keys)
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("serialized keys mismatch (-want +got):\n%s", diff)
	}

	expected := `{"categories":{"spam":true},"docCount":{"spam":1},"totalDocuments":1,` +
		`"vocabulary":{"buy":true,"now":true},"vocabularySize":2,"wordCount":{"spam":3},` +
		`"wordFrequencyCount":{"spam":{"buy":2,"now":1}}}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
}

func TestModel_EmptyJSON(t *testing.T) {
	data, err := New(nil).ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"categories":{},"docCount":{},"totalDocuments":0,"vocabulary":{},"vocabularySize":0,"wordCount":{},"wordFrequencyCount":{}}`
	if data != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
}

func TestModel_FromJSONAcceptsArraysAndEmptyLists(t *testing.T) {
	data := `{
		"categories": ["ham", "spam"],
		"docCount": {"ham": 1, "spam": 1},
		"totalDocuments": 2,
		"vocabulary": ["hello", "buy"],
		"vocabularySize": 2,
		"wordCount": {"ham": 1, "spam": 1},
		"wordFrequencyCount": {"ham": {"hello": 1}, "spam": {"buy": 1}}
	}`

	m := New(nil)
	if err := m.FromJSON([]byte(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"ham", "spam"}, m.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if category, _ := m.Categorize(port.Text("buy buy")); category != "spam" {
		t.Errorf("expected spam, got %s", category)
	}

	empty := `{"categories":[],"docCount":[],"totalDocuments":0,"vocabulary":[],"vocabularySize":0,"wordCount":[],"wordFrequencyCount":[]}`
	if err := m.FromJSON([]byte(empty)); err != nil {
		t.Fatalf("unexpected error for empty lists: %v", err)
	}
	if m.TotalDocuments() != 0 || len(m.Categories()) != 0 {
		t.Errorf("expected empty model, got %+v", m.Info())
	}
}

func TestModel_FromJSONIgnoresUnknownAndMissingFields(t *testing.T) {
	data := `{"categories":{"spam":true},"docCount":{"spam":2},"totalDocuments":2,"version":"9","checksum":null,"wordCount":null}`

	m := New(nil)
	if err := m.FromJSON([]byte(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TotalDocuments() != 2 {
		t.Errorf("expected 2 documents, got %d", m.TotalDocuments())
	}
	if m.VocabularySize() != 0 {
		t.Errorf("expected vocabulary size 0, got %d", m.VocabularySize())
	}
	counts, ok := m.WordFrequencyCount("spam")
	if ok {
		t.Errorf("expected no frequency table for spam, got %v", counts)
	}

	// a partially loaded category can still be trained
	m.Learn(port.Text("buy now"), "spam")
	counts, ok = m.WordFrequencyCount("spam")
	if !ok || counts["buy"] != 1 {
		t.Errorf("expected buy=1 after learning, got %v", counts)
	}
}

func TestModel_FromJSONMalformed(t *testing.T) {
	m := trainLanguages(New(nil))

	err := m.FromJSON([]byte(`{"categories": {"chinese": true`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if m.TotalDocuments() != 0 || len(m.Categories()) != 0 {
		t.Errorf("expected model to be reset after failed load, got %+v", m.Info())
	}

	err = m.FromJSON([]byte(`{"docCount": "many"}`))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for wrong field type, got %v", err)
	}
}

func TestModel_LoadStateCopies(t *testing.T) {
	st := State{
		Categories:         Set{"spam"},
		DocCount:           Counts{"spam": 1},
		TotalDocuments:     1,
		Vocabulary:         Set{"buy"},
		VocabularySize:     1,
		WordCount:          Counts{"spam": 1},
		WordFrequencyCount: FrequencyTable{"spam": {"buy": 1}},
	}
	m := New(nil).LoadState(st)

	st.WordFrequencyCount["spam"]["buy"] = 100
	st.DocCount["spam"] = 100

	counts, _ := m.WordFrequencyCount("spam")
	if counts["buy"] != 1 {
		t.Errorf("expected model to own its state, got buy=%d", counts["buy"])
	}
	if got := m.State().DocCount["spam"]; got != 1 {
		t.Errorf("expected docCount 1, got %d", got)
	}
}

func TestSet_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected Set
	}{
		{`{"b":true,"a":true,"c":1}`, Set{"b", "a", "c"}},
		{`["x","y"]`, Set{"x", "y"}},
		{`{}`, Set{}},
		{`[]`, Set{}},
	}
	for _, tt := range tests {
		var s Set
		if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
			t.Errorf("unexpected error for %s: %v", tt.input, err)
			continue
		}
		if diff := cmp.Diff(tt.expected, s); diff != "" {
			t.Errorf("Set(%s) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}

	var s Set
	if err := json.Unmarshal([]byte(`"nope"`), &s); err == nil {
		t.Error("expected error for string input")
	}
	if err := json.Unmarshal([]byte(`null`), &s); err != nil || s != nil {
		t.Errorf("expected null to leave set nil, got %v (%v)", s, err)
	}
}

func TestSet_MarshalJSONEscapes(t *testing.T) {
	data, err := json.Marshal(Set{`quo"te`, "ünï"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"quo\"te":true`) {
		t.Errorf("expected escaped key, got %s", data)
	}
}
