package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrDecode = errors.New("failed to decode model state")
	ErrEncode = errors.New("failed to encode model state")
)

// State is the serialized form of a Model. A nil field is treated as absent
// when loading.
type State struct {
	Categories         Set            `json:"categories"`
	DocCount           Counts         `json:"docCount"`
	TotalDocuments     int            `json:"totalDocuments"`
	Vocabulary         Set            `json:"vocabulary"`
	VocabularySize     int            `json:"vocabularySize"`
	WordCount          Counts         `json:"wordCount"`
	WordFrequencyCount FrequencyTable `json:"wordFrequencyCount"`
}

// State returns a deep copy of the learned state.
func (m *Model) State() State {
	vocabulary := make(Set, 0, len(m.vocabulary))
	for token := range m.vocabulary {
		vocabulary = append(vocabulary, token)
	}
	sort.Strings(vocabulary)

	table := make(FrequencyTable, len(m.wordFrequencyCount))
	for category, counts := range m.wordFrequencyCount {
		table[category] = copyCounts(counts)
	}

	return State{
		Categories:         append(Set{}, m.categories...),
		DocCount:           copyCounts(m.docCount),
		TotalDocuments:     m.totalDocuments,
		Vocabulary:         vocabulary,
		VocabularySize:     m.vocabularySize,
		WordCount:          copyCounts(m.wordCount),
		WordFrequencyCount: table,
	}
}

// LoadState resets the model and copies in every field present in st.
// Fields are taken as they are; they are not cross-checked.
func (m *Model) LoadState(st State) *Model {
	m.Reset()

	for _, category := range st.Categories {
		if _, ok := m.categorySet[category]; ok {
			continue
		}
		m.categorySet[category] = struct{}{}
		m.categories = append(m.categories, category)
	}
	if st.DocCount != nil {
		m.docCount = copyCounts(st.DocCount)
	}
	m.totalDocuments = st.TotalDocuments
	for _, token := range st.Vocabulary {
		m.vocabulary[token] = struct{}{}
	}
	m.vocabularySize = st.VocabularySize
	if st.WordCount != nil {
		m.wordCount = copyCounts(st.WordCount)
	}
	for category, counts := range st.WordFrequencyCount {
		m.wordFrequencyCount[category] = copyCounts(counts)
		// the encoded table carries no insertion order
		order := make([]string, 0, len(counts))
		for token := range counts {
			order = append(order, token)
		}
		sort.Strings(order)
		m.tokenOrder[category] = order
	}

	m.generation++
	return m
}

// MarshalJSON encodes the model state.
func (m *Model) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(m.State())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

// ToJSON returns the model state as JSON text.
func (m *Model) ToJSON() (string, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON replaces the model with the state encoded in data. The model is
// reset before decoding, so on error it is left empty; callers that need the
// previous state must keep their own copy.
func (m *Model) FromJSON(data []byte) error {
	m.Reset()

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	m.LoadState(st)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler with FromJSON semantics.
func (m *Model) UnmarshalJSON(data []byte) error {
	return m.FromJSON(data)
}

// Set is an ordered set of strings, encoded as a JSON object with true
// values. It decodes from that object form or from a JSON array.
type Set []string

func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(":true")
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Set) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var keys []string
		if err := json.Unmarshal(data, &keys); err != nil {
			return err
		}
		*s = append(Set{}, keys...)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	keys := Set{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("set key: unexpected %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	*s = keys
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Counts maps a key to an integer count. An empty JSON array decodes as an
// empty map.
type Counts map[string]int

func (c *Counts) UnmarshalJSON(data []byte) error {
	if isEmptyArray(data) {
		*c = Counts{}
		return nil
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m != nil {
		*c = m
	}
	return nil
}

// FrequencyTable maps a category to its token counts.
type FrequencyTable map[string]Counts

func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	if isEmptyArray(data) {
		*t = FrequencyTable{}
		return nil
	}
	var m map[string]Counts
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m != nil {
		*t = m
	}
	return nil
}

func isEmptyArray(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) < 2 || data[0] != '[' || data[len(data)-1] != ']' {
		return false
	}
	return len(bytes.TrimSpace(data[1:len(data)-1])) == 0
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
