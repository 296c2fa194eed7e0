package classifier

import (
	"math"
	"sort"

	"bayes/internal/adapter/analyzer"
	"bayes/internal/domain"
	"bayes/internal/port"
)

// Model is a multinomial Naive Bayes text classifier.
//
// A Model is not safe for concurrent use while it is being trained.
// Concurrent Categorize and Probabilities calls are safe when no one is
// calling Learn, Reset, Prune or LoadState.
type Model struct {
	tokenizer port.Tokenizer

	// categories in the order they were first learned
	categories         []string
	categorySet        map[string]struct{}
	docCount           map[string]int
	totalDocuments     int
	vocabulary         map[string]struct{}
	vocabularySize     int
	wordCount          map[string]int
	wordFrequencyCount map[string]map[string]int
	// tokens of each category in the order they were first counted
	tokenOrder map[string][]string

	generation uint64
}

// New creates an empty model. A nil tokenizer selects the default
// analyzer.Tokenizer.
func New(tok port.Tokenizer) *Model {
	if tok == nil {
		tok = analyzer.NewTokenizer()
	}
	m := &Model{tokenizer: tok}
	return m.Reset()
}

// tok never writes to m, so reads stay safe on a zero-value Model.
func (m *Model) tok() port.Tokenizer {
	if m.tokenizer == nil {
		return analyzer.NewTokenizer()
	}
	return m.tokenizer
}

// Learn trains the model with one document labeled category.
func (m *Model) Learn(in port.Input, category string) *Model {
	m.initializeCategory(category)

	m.docCount[category]++
	m.totalDocuments++

	counts := m.wordFrequencyCount[category]
	for _, f := range frequencyTable(m.tok().Tokenize(in)) {
		if _, known := m.vocabulary[f.Token]; !known {
			m.vocabulary[f.Token] = struct{}{}
			m.vocabularySize++
		}
		if _, seen := counts[f.Token]; !seen {
			m.tokenOrder[category] = append(m.tokenOrder[category], f.Token)
		}
		counts[f.Token] += f.Count
		m.wordCount[category] += f.Count
	}

	m.generation++
	return m
}

// Categorize returns the most likely category for in. It reports false when
// the model is untrained or knows no category. On a tie the category learned
// first wins.
func (m *Model) Categorize(in port.Input) (string, bool) {
	if m.totalDocuments == 0 {
		return "", false
	}
	return argmax(m.logScores(in))
}

// Probabilities scores in against every known category. It returns nil when
// the model is untrained.
//
// FormatLog scores are raw log probabilities: comparable across categories
// for one document only. FormatProbability and FormatPercentage are
// normalized to sum to 1 and 100.
func (m *Model) Probabilities(in port.Input, format domain.ProbabilityFormat) map[string]float64 {
	if m.totalDocuments == 0 {
		return nil
	}
	return normalize(m.logScores(in), format)
}

// Classify returns both the Categorize result and the Probabilities scores
// of in, tokenizing and scoring the document once.
func (m *Model) Classify(in port.Input, format domain.ProbabilityFormat) (string, bool, map[string]float64) {
	if m.totalDocuments == 0 {
		return "", false, nil
	}
	scores := m.logScores(in)
	category, found := argmax(scores)
	return category, found, normalize(scores, format)
}

type categoryScore struct {
	category string
	score    float64
}

// argmax picks the highest score; the earliest category wins a tie.
func argmax(scores []categoryScore) (string, bool) {
	best := math.Inf(-1)
	chosen, found := "", false
	for _, s := range scores {
		if s.score > best {
			best = s.score
			chosen, found = s.category, true
		}
	}
	return chosen, found
}

func normalize(scores []categoryScore, format domain.ProbabilityFormat) map[string]float64 {
	result := make(map[string]float64, len(scores))
	for _, s := range scores {
		result[s.category] = s.score
	}
	if format != domain.FormatProbability && format != domain.FormatPercentage {
		return result
	}

	maxLog := math.Inf(-1)
	for _, s := range scores {
		maxLog = math.Max(maxLog, s.score)
	}

	// shift by the max so the best category maps to exp(0) before normalizing
	shifted := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		shifted[i] = math.Exp(s.score - maxLog)
		sum += shifted[i]
	}
	if !(sum > 0) {
		return result
	}

	scale := 1.0
	if format == domain.FormatPercentage {
		scale = 100
	}
	for i, s := range scores {
		result[s.category] = shifted[i] / sum * scale
	}
	return result
}

// logScores computes ln P(c) + sum n*ln P(t|c) for every category, in
// first-learned order.
func (m *Model) logScores(in port.Input) []categoryScore {
	frequencies := frequencyTable(m.tok().Tokenize(in))

	scores := make([]categoryScore, 0, len(m.categories))
	for _, category := range m.categories {
		prior := float64(m.docCount[category]) / float64(m.totalDocuments)
		logScore := math.Log(prior)
		for _, f := range frequencies {
			logScore += float64(f.Count) * math.Log(m.tokenProbability(f.Token, category))
		}
		scores = append(scores, categoryScore{category: category, score: logScore})
	}
	return scores
}

// tokenProbability is P(token|category) with Laplace add-1 smoothing over the
// global vocabulary.
func (m *Model) tokenProbability(token, category string) float64 {
	occurrences := m.wordFrequencyCount[category][token]
	denominator := m.wordCount[category] + m.vocabularySize
	if denominator == 0 {
		// nothing learned anywhere: the token carries no information
		return 1
	}
	return float64(occurrences+1) / float64(denominator)
}

// Reset discards everything the model has learned.
func (m *Model) Reset() *Model {
	m.categories = []string{}
	m.categorySet = make(map[string]struct{})
	m.docCount = make(map[string]int)
	m.totalDocuments = 0
	m.vocabulary = make(map[string]struct{})
	m.vocabularySize = 0
	m.wordCount = make(map[string]int)
	m.wordFrequencyCount = make(map[string]map[string]int)
	m.tokenOrder = make(map[string][]string)
	m.generation++
	return m
}

// Prune rebuilds the vocabulary as the union of the per-category token
// tables and recomputes its size.
//
// TODO: drop tokens seen fewer than minFrequency times, once it is settled
// whether wordCount is rebalanced and how already-trained scores shift.
func (m *Model) Prune(minFrequency int) *Model {
	vocabulary := make(map[string]struct{})
	for _, counts := range m.wordFrequencyCount {
		for token := range counts {
			vocabulary[token] = struct{}{}
		}
	}
	m.vocabulary = vocabulary
	m.vocabularySize = len(vocabulary)
	m.generation++
	return m
}

// WordFrequencyCount returns a copy of the token counts of category.
func (m *Model) WordFrequencyCount(category string) (map[string]int, bool) {
	counts, ok := m.wordFrequencyCount[category]
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(counts))
	for token, n := range counts {
		out[token] = n
	}
	return out, true
}

// RankedWords returns the token counts of category ordered by descending
// frequency. Equal counts keep the order the tokens were first counted in.
func (m *Model) RankedWords(category string) ([]domain.TokenCount, bool) {
	counts, ok := m.wordFrequencyCount[category]
	if !ok {
		return nil, false
	}
	ranked := make([]domain.TokenCount, 0, len(counts))
	for _, token := range m.tokenOrder[category] {
		ranked = append(ranked, domain.TokenCount{Token: token, Count: counts[token]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked, true
}

// Categories returns the known categories in first-learned order.
func (m *Model) Categories() []string {
	return append([]string(nil), m.categories...)
}

func (m *Model) TotalDocuments() int {
	return m.totalDocuments
}

func (m *Model) VocabularySize() int {
	return m.vocabularySize
}

// Generation changes every time the model is mutated.
func (m *Model) Generation() uint64 {
	return m.generation
}

// Info summarizes the model.
func (m *Model) Info() domain.ModelInfo {
	info := domain.ModelInfo{
		Categories:     make([]domain.CategoryInfo, 0, len(m.categories)),
		TotalDocuments: m.totalDocuments,
		VocabularySize: m.vocabularySize,
	}
	for _, category := range m.categories {
		info.Categories = append(info.Categories, domain.CategoryInfo{
			Name:      category,
			Documents: m.docCount[category],
			Words:     m.wordCount[category],
			Distinct:  len(m.wordFrequencyCount[category]),
		})
	}
	return info
}

func (m *Model) initializeCategory(category string) {
	if m.categorySet == nil {
		m.Reset()
	}
	if _, ok := m.categorySet[category]; !ok {
		m.categorySet[category] = struct{}{}
		m.categories = append(m.categories, category)
		m.docCount[category] = 0
		m.wordCount[category] = 0
	}
	// a loaded state may list a category without its token table
	if m.wordFrequencyCount[category] == nil {
		m.wordFrequencyCount[category] = make(map[string]int)
	}
}

// frequencyTable counts tokens, keeping first-occurrence order.
func frequencyTable(tokens []string) []domain.TokenCount {
	index := make(map[string]int, len(tokens))
	table := make([]domain.TokenCount, 0, len(tokens))
	for _, token := range tokens {
		if i, ok := index[token]; ok {
			table[i].Count++
			continue
		}
		index[token] = len(table)
		table = append(table, domain.TokenCount{Token: token, Count: 1})
	}
	return table
}
