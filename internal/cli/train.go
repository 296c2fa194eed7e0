package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"bayes/internal/adapter/fs"
	"bayes/internal/domain"
	"bayes/internal/usecase"
)

var trainReset bool

var trainCmd = &cobra.Command{
	Use:   "train [path]",
	Short: "Learn a labeled corpus directory",
	Long: `Learn every file under a corpus directory. Each top-level
subdirectory names a category; files directly under the corpus root are
skipped. HTML files are learned from their visible text.

Examples:
  bayes train ./corpus              # corpus/spam/*.txt, corpus/ham/*.txt
  bayes train ./corpus --reset      # Forget the model first`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().BoolVar(&trainReset, "reset", false, "reset the model before training")
}

func runTrain(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	model, err := sess.open()
	if err != nil {
		return err
	}
	if trainReset {
		model.Reset()
	}

	walker := fs.NewWalker(cfg.Train.Includes, cfg.Train.Excludes)
	trainUC := usecase.NewTrainUseCase(model, walker, cfg.Train.HTMLExtensions, GetLogger())

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var startTime time.Time

	progressCallback := func(processed, total int, sample domain.TrainingSample) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Training[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Training[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, trainErr := trainUC.Train(path, progressCallback)
	if result == nil {
		return fmt.Errorf("training failed: %w", trainErr)
	}

	if err := sess.save(model); err != nil {
		return err
	}

	fmt.Printf("\nTraining complete:\n")
	fmt.Printf("  Files learned: %d\n", result.FilesLearned)
	fmt.Printf("  Files skipped: %d\n", result.FilesSkipped)

	categories := make([]string, 0, len(result.Categories))
	for category := range result.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("  %-20s %d\n", category+":", result.Categories[category])
	}

	if trainErr != nil {
		fmt.Printf("\nWarnings:\n")
		for _, e := range multierr.Errors(trainErr) {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nModel %s: %d documents, %d words in vocabulary\n",
		sess.name, model.TotalDocuments(), model.VocabularySize())
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
