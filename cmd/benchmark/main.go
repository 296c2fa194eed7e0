package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"bayes/config"
	"bayes/internal/adapter/cache"
	"bayes/internal/adapter/fs"
	"bayes/internal/adapter/store"
	"bayes/internal/domain"
	"bayes/internal/usecase"
)

func main() {
	modelDir := flag.String("dir", ".", "Directory holding the .bayes model store")
	modelName := flag.String("m", "", "Model name (default from config)")
	corpus := flag.String("corpus", "", "Labeled test corpus, one directory per category")
	flag.Parse()

	if *corpus == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -corpus ./testdata/held-out")
		fmt.Println("\nReports:")
		fmt.Println("  1. Accuracy per category on documents the model has not learned")
		fmt.Println("  2. Most frequent confusions")
		fmt.Println("  3. Classification throughput")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*modelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}

	dbPath := config.ModelDBPath(*modelDir, cfg.Model.Store)
	var st interface {
		Close() error
	}
	var models *usecase.ModelUseCase
	if cfg.Model.Store == "sqlite" {
		s, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening model store: %v\n", err)
			os.Exit(1)
		}
		st, models = s, usecase.NewModelUseCase(s, cfg.Tokenizer, logr.Discard())
	} else {
		s, err := store.NewBoltStore(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening model store: %v\n", err)
			os.Exit(1)
		}
		st, models = s, usecase.NewModelUseCase(s, cfg.Tokenizer, logr.Discard())
	}
	defer st.Close()

	model, err := models.Open(cfg.Model.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}
	if model.TotalDocuments() == 0 {
		fmt.Fprintf(os.Stderr, "Model %s is untrained - run 'bayes train' first\n", cfg.Model.Name)
		os.Exit(1)
	}

	files, err := fs.NewWalker(cfg.Train.Includes, cfg.Train.Excludes).Walk(*corpus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking corpus: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("CLASSIFICATION BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Model: %s (%d documents, %d categories, vocabulary %d)\n",
		cfg.Model.Name, model.TotalDocuments(), len(model.Categories()), model.VocabularySize())
	fmt.Printf("Corpus: %s\n\n", *corpus)

	classifyUC := usecase.NewClassifyUseCase(model, cache.NewPredictionCache(1, time.Minute), cfg.Train.HTMLExtensions)

	type tally struct{ total, correct int }
	tallies := make(map[string]*tally)
	confusions := make(map[string]int)
	evaluated := 0
	var elapsed time.Duration

	for _, file := range files {
		expected, _, found := strings.Cut(file.RelPath, "/")
		if !found {
			continue
		}

		start := time.Now()
		p, err := classifyUC.ClassifyFile(file.Path, domain.FormatLog)
		elapsed += time.Since(start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", file.RelPath, err)
			continue
		}

		evaluated++
		if tallies[expected] == nil {
			tallies[expected] = &tally{}
		}
		tallies[expected].total++
		if p.Category == expected {
			tallies[expected].correct++
		} else {
			got := p.Category
			if !p.Found {
				got = "(none)"
			}
			confusions[expected+" -> "+got]++
		}
	}

	if evaluated == 0 {
		fmt.Println("No labeled documents found")
		os.Exit(1)
	}

	categories := make([]string, 0, len(tallies))
	for c := range tallies {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	correct := 0
	fmt.Println("ACCURACY PER CATEGORY:")
	for _, c := range categories {
		t := tallies[c]
		correct += t.correct
		fmt.Printf("  %-24s %5d/%-5d %6.2f%%\n", c, t.correct, t.total, 100*float64(t.correct)/float64(t.total))
	}

	if len(confusions) > 0 {
		type confusion struct {
			pair  string
			count int
		}
		ranked := make([]confusion, 0, len(confusions))
		for pair, n := range confusions {
			ranked = append(ranked, confusion{pair, n})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].count != ranked[j].count {
				return ranked[i].count > ranked[j].count
			}
			return ranked[i].pair < ranked[j].pair
		})
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}
		fmt.Println("\nTOP CONFUSIONS:")
		for _, c := range ranked {
			fmt.Printf("  %-40s %d\n", c.pair, c.count)
		}
	}

	accuracy := float64(correct) / float64(evaluated)
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Documents:  %d\n", evaluated)
	fmt.Printf("  Accuracy:   %.2f%%\n", 100*accuracy)
	fmt.Printf("  Throughput: %.0f docs/s\n", float64(evaluated)/elapsed.Seconds())

	if accuracy > 0.9 {
		fmt.Println("  Status: GOOD - model separates the categories well")
	} else if accuracy > 0.7 {
		fmt.Println("  Status: OK - consider more training data")
	} else {
		fmt.Println("  Status: POOR - check labels or tokenizer settings")
	}
}
