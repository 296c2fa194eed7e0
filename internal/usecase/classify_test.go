package usecase

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/multierr"

	"bayes/internal/adapter/cache"
	"bayes/internal/adapter/classifier"
	"bayes/internal/domain"
	"bayes/internal/port"
)

func sentimentModel() *classifier.Model {
	return classifier.New(nil).
		Learn(port.Text("amazing, awesome movie!! Yeah!! Oh boy."), "positive").
		Learn(port.Text("Sweet, this is incredibly, amazing, perfect, great!!"), "positive").
		Learn(port.Text("terrible, shitty thing. Damn. Sucks!!"), "negative")
}

func TestClassifyUseCase_ClassifyText(t *testing.T) {
	predictions := cache.NewPredictionCache(10, time.Minute)
	uc := NewClassifyUseCase(sentimentModel(), predictions, nil)

	p := uc.ClassifyText("awesome, cool, amazing!! Yay.", domain.FormatPercentage)
	if !p.Found || p.Category != "positive" {
		t.Errorf("expected positive, got %+v", p)
	}
	if p.Source != "text" || p.Format != "percentage" {
		t.Errorf("unexpected source/format: %s/%s", p.Source, p.Format)
	}
	sum := 0.0
	for _, v := range p.Scores {
		sum += v
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("expected percentages to sum to 100, got %f", sum)
	}
	if predictions.Size() != 1 {
		t.Errorf("expected prediction to be cached, got size %d", predictions.Size())
	}
}

func TestClassifyUseCase_Untrained(t *testing.T) {
	uc := NewClassifyUseCase(classifier.New(nil), cache.NewPredictionCache(10, time.Minute), nil)

	p := uc.ClassifyText("hello", domain.FormatLog)
	if p.Found {
		t.Errorf("expected no category, got %s", p.Category)
	}
	if len(p.Scores) != 0 {
		t.Errorf("expected no scores, got %v", p.Scores)
	}
}

func TestClassifyUseCase_ClassifyFiles(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"review.txt":  "amazing perfect great",
		"rant.html":   "<body><h1>terrible</h1><style>.amazing{}</style><p>sucks damn</p></body>",
		"ignored.bin": "",
	})
	uc := NewClassifyUseCase(sentimentModel(), cache.NewPredictionCache(10, time.Minute), []string{".html"})

	paths := []string{
		filepath.Join(root, "review.txt"),
		filepath.Join(root, "rant.html"),
		filepath.Join(root, "missing.txt"),
	}
	predictions, err := uc.ClassifyFiles(paths, domain.FormatProbability)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Errorf("expected 1 error, got %d", n)
	}
	if len(predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(predictions))
	}

	if predictions[0].Category != "positive" || predictions[0].Source != paths[0] {
		t.Errorf("expected positive for %s, got %+v", paths[0], predictions[0])
	}
	if predictions[1].Category != "negative" || predictions[1].Source != paths[1] {
		t.Errorf("expected negative for %s, got %+v", paths[1], predictions[1])
	}
}
