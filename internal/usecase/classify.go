package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"bayes/internal/adapter/cache"
	"bayes/internal/adapter/classifier"
	"bayes/internal/domain"
	"bayes/internal/port"
)

// ClassifyUseCase classifies text and files against a trained model.
type ClassifyUseCase struct {
	model          *classifier.Model
	cached         *cache.CachedClassifier
	htmlExtensions map[string]bool
}

// NewClassifyUseCase creates a new classify use case. Text predictions are
// served from predictions until the model changes.
func NewClassifyUseCase(model *classifier.Model, predictions *cache.PredictionCache, htmlExtensions []string) *ClassifyUseCase {
	return &ClassifyUseCase{
		model:          model,
		cached:         cache.NewCachedClassifier(model, predictions),
		htmlExtensions: extensionSet(htmlExtensions),
	}
}

// ClassifyText classifies a document given as text.
func (u *ClassifyUseCase) ClassifyText(text string, format domain.ProbabilityFormat) domain.Prediction {
	p := u.cached.Predict(text, format)
	p.Source = "text"
	return p
}

// ClassifyFile classifies the document at path.
func (u *ClassifyUseCase) ClassifyFile(path string, format domain.ProbabilityFormat) (domain.Prediction, error) {
	html := u.htmlExtensions[strings.ToLower(filepath.Ext(path))]
	in, err := readInput(path, html)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("failed to classify %s: %w", path, err)
	}

	var p domain.Prediction
	if s, isText := textOf(in); isText {
		p = u.cached.Predict(s, format)
	} else {
		p = cache.Predict(u.model, in, format)
	}
	p.Source = path
	return p, nil
}

// ClassifyFiles classifies every path. Failed files are left out of the
// predictions and reported together in the error.
func (u *ClassifyUseCase) ClassifyFiles(paths []string, format domain.ProbabilityFormat) ([]domain.Prediction, error) {
	predictions := make([]domain.Prediction, 0, len(paths))
	var errs error
	for _, path := range paths {
		p, err := u.ClassifyFile(path, format)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		predictions = append(predictions, p)
	}
	return predictions, errs
}

func textOf(in port.Input) (string, bool) {
	if _, isObject := in.Tokenizable(); isObject {
		return "", false
	}
	return in.String(), true
}
