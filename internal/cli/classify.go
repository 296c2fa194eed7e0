package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"bayes/internal/adapter/cache"
	"bayes/internal/domain"
	"bayes/internal/usecase"
)

var (
	classifyFormat string
	classifyFiles  bool
	classifyJSON   bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text | files...]",
	Short: "Classify documents",
	Long: `Classify a document against the trained model and print the most
likely category with every category's score.

Scores are log probabilities by default. --format probability and
--format percentage normalize them to sum to 1 and 100.

Examples:
  bayes classify "awesome, cool, amazing!! Yay."
  bayes classify -f percentage "Chinese Tokyo Japan"
  bayes classify --files inbox/*.txt --json`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVarP(&classifyFormat, "format", "f", "", "score format: log, probability, percentage (default from config)")
	classifyCmd.Flags().BoolVar(&classifyFiles, "files", false, "treat arguments as file paths")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output as JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	formatName := cfg.Classify.Format
	if classifyFormat != "" {
		formatName = classifyFormat
	}
	format, err := domain.ParseProbabilityFormat(formatName)
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	model, err := sess.open()
	if err != nil {
		return err
	}
	if model.TotalDocuments() == 0 {
		return fmt.Errorf("model %s is untrained. Run 'bayes learn' or 'bayes train' first", sess.name)
	}

	predictions := cache.NewPredictionCache(cfg.Classify.CacheSize, cfg.Classify.CacheTTL)
	classifyUC := usecase.NewClassifyUseCase(model, predictions, cfg.Train.HTMLExtensions)

	var results []domain.Prediction
	var classifyErr error
	if classifyFiles {
		if len(args) == 0 {
			return fmt.Errorf("no files given")
		}
		results, classifyErr = classifyUC.ClassifyFiles(args, format)
	} else {
		if len(args) > 1 {
			return fmt.Errorf("expected one text argument, got %d; use --files for paths", len(args))
		}
		text, err := readDocument(cmd, args, "")
		if err != nil {
			return err
		}
		results = []domain.Prediction{classifyUC.ClassifyText(text, format)}
	}

	if classifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	} else {
		for i, p := range results {
			if i > 0 {
				fmt.Println()
			}
			printPrediction(p, model.Categories())
		}
	}

	return classifyErr
}

func printPrediction(p domain.Prediction, order []string) {
	if p.Source != "text" {
		fmt.Printf("%s\n", p.Source)
	}
	if !p.Found {
		fmt.Println("  category: (none)")
		return
	}
	fmt.Printf("  category: %s\n", p.Category)

	// best first; categories with equal scores keep first-learned order
	rank := make(map[string]int, len(order))
	for i, c := range order {
		rank[c] = i
	}
	categories := make([]string, 0, len(p.Scores))
	for c := range p.Scores {
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if p.Scores[a] != p.Scores[b] {
			return p.Scores[a] > p.Scores[b]
		}
		return rank[a] < rank[b]
	})

	for _, c := range categories {
		switch p.Format {
		case domain.FormatPercentage.String():
			fmt.Printf("  %-20s %7.2f%%\n", c, p.Scores[c])
		case domain.FormatProbability.String():
			fmt.Printf("  %-20s %.6f\n", c, p.Scores[c])
		default:
			fmt.Printf("  %-20s %.4f\n", c, p.Scores[c])
		}
	}
}
