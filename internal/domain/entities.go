package domain

import (
	"fmt"
	"strings"
)

// ProbabilityFormat selects how per-category scores are reported.
type ProbabilityFormat int

const (
	// FormatLog reports raw, unnormalized log scores.
	FormatLog ProbabilityFormat = iota
	// FormatProbability reports a distribution summing to 1.
	FormatProbability
	// FormatPercentage reports a distribution summing to 100.
	FormatPercentage
)

func (f ProbabilityFormat) String() string {
	switch f {
	case FormatLog:
		return "log"
	case FormatProbability:
		return "probability"
	case FormatPercentage:
		return "percentage"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseProbabilityFormat parses "log", "probability" or "percentage".
// An empty string selects FormatLog.
func ParseProbabilityFormat(s string) (ProbabilityFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "log":
		return FormatLog, nil
	case "probability", "prob":
		return FormatProbability, nil
	case "percentage", "percent", "pct":
		return FormatPercentage, nil
	}
	return FormatLog, fmt.Errorf("unknown probability format: %q", s)
}

type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

type CategoryInfo struct {
	Name      string `json:"name"`
	Documents int    `json:"documents"`
	Words     int    `json:"words"`
	Distinct  int    `json:"distinct"`
}

type ModelInfo struct {
	Categories     []CategoryInfo `json:"categories"`
	TotalDocuments int            `json:"total_documents"`
	VocabularySize int            `json:"vocabulary_size"`
}

// Prediction is the outcome of classifying one document.
type Prediction struct {
	Source   string             `json:"source"`
	Category string             `json:"category,omitempty"`
	Found    bool               `json:"found"`
	Format   string             `json:"format"`
	Scores   map[string]float64 `json:"scores,omitempty"`
}

type TrainingSample struct {
	Path     string
	Category string
	HTML     bool
}
