package usecase

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"

	"bayes/internal/adapter/analyzer"
	"bayes/internal/adapter/classifier"
	"bayes/internal/adapter/fs"
	"bayes/internal/domain"
	"bayes/internal/logging"
	"bayes/internal/port"
)

// TrainUseCase learns a labeled corpus laid out as one directory per
// category.
type TrainUseCase struct {
	model          *classifier.Model
	walker         port.Walker
	htmlExtensions map[string]bool
	log            logr.Logger
}

// NewTrainUseCase creates a new train use case. Files whose extension is in
// htmlExtensions are learned from their visible text.
func NewTrainUseCase(model *classifier.Model, walker port.Walker, htmlExtensions []string, log logr.Logger) *TrainUseCase {
	return &TrainUseCase{
		model:          model,
		walker:         walker,
		htmlExtensions: extensionSet(htmlExtensions),
		log:            log,
	}
}

// TrainResult contains the results of a training run.
type TrainResult struct {
	FilesLearned int
	FilesSkipped int
	// Documents learned per category in this run.
	Categories map[string]int
}

// ProgressFunc is called after each corpus file is processed.
type ProgressFunc func(done, total int, sample domain.TrainingSample)

// Train learns every file under root. The category of a file is the first
// directory of its path relative to root; files directly in root are
// skipped. Unreadable files are skipped and reported in the returned error
// while the rest of the corpus is still learned.
func (u *TrainUseCase) Train(root string, progress ProgressFunc) (*TrainResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &TrainResult{Categories: make(map[string]int)}
	var errs error

	for i, file := range files {
		sample, ok := u.sample(file)
		if !ok {
			u.log.V(logging.DEBUG).Info("Skipping file outside a category directory", "path", file.RelPath)
			result.FilesSkipped++
		} else if err := u.learnFile(sample); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to learn %s: %w", file.RelPath, err))
			result.FilesSkipped++
		} else {
			u.log.V(logging.VERBOSE).Info("Learned document", "path", file.RelPath, "category", sample.Category)
			result.FilesLearned++
			result.Categories[sample.Category]++
		}

		if progress != nil {
			progress(i+1, len(files), sample)
		}
	}

	return result, errs
}

func (u *TrainUseCase) sample(file port.FileInfo) (domain.TrainingSample, bool) {
	s := domain.TrainingSample{
		Path: file.Path,
		HTML: u.htmlExtensions[strings.ToLower(filepath.Ext(file.Path))],
	}
	dir, _, found := strings.Cut(path.Clean(file.RelPath), "/")
	if !found || dir == "" {
		return s, false
	}
	s.Category = dir
	return s, true
}

func (u *TrainUseCase) learnFile(sample domain.TrainingSample) error {
	in, err := readInput(sample.Path, sample.HTML)
	if err != nil {
		return err
	}
	u.model.Learn(in, sample.Category)
	return nil
}

// readInput reads a document from disk, as a self-tokenizing HTML document
// when html is set.
func readInput(path string, html bool) (port.Input, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return port.Input{}, fmt.Errorf("failed to read file: %w", err)
	}
	if html {
		return port.Object(analyzer.NewHTMLDocument(content)), nil
	}
	return port.Text(content), nil
}

func extensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}
