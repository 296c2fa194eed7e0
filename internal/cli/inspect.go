package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	inspectTop  int
	inspectJSON bool
	infoJSON    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [category...]",
	Short: "Show the most frequent words per category",
	Long: `Show the learned words of each category, most frequent first.
Without arguments every category is shown.

Examples:
  bayes inspect                 # Top 10 words of every category
  bayes inspect spam --top 50`,
	RunE: runInspect,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show model statistics",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(infoCmd)
	inspectCmd.Flags().IntVarP(&inspectTop, "top", "n", 10, "number of words per category (0 for all)")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	model, err := sess.open()
	if err != nil {
		return err
	}

	categories := args
	if len(categories) == 0 {
		categories = model.Categories()
	}

	type categoryWords struct {
		Category string         `json:"category"`
		Words    map[string]int `json:"words"`
	}
	var out []categoryWords

	for _, category := range categories {
		ranked, ok := model.RankedWords(category)
		if !ok {
			return fmt.Errorf("unknown category %q in model %s", category, sess.name)
		}
		if inspectTop > 0 && len(ranked) > inspectTop {
			ranked = ranked[:inspectTop]
		}

		if inspectJSON {
			words := make(map[string]int, len(ranked))
			for _, tc := range ranked {
				words[tc.Token] = tc.Count
			}
			out = append(out, categoryWords{Category: category, Words: words})
			continue
		}

		fmt.Printf("%s\n", category)
		for _, tc := range ranked {
			fmt.Printf("  %-24s %d\n", tc.Token, tc.Count)
		}
	}

	if inspectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	model, err := sess.open()
	if err != nil {
		return err
	}
	info := model.Info()

	if infoJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("Model:       %s (%s store)\n", sess.name, GetConfig().Model.Store)
	fmt.Printf("Documents:   %d\n", info.TotalDocuments)
	fmt.Printf("Vocabulary:  %d\n", info.VocabularySize)
	fmt.Printf("Categories:  %d\n", len(info.Categories))
	for _, c := range info.Categories {
		fmt.Printf("  %-20s %d documents, %d words (%d distinct)\n", c.Name, c.Documents, c.Words, c.Distinct)
	}
	return nil
}
