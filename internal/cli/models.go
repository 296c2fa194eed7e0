package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bayes/internal/logging"
)

var modelsDelete string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List stored models",
	Long: `List the models in the store. Models trained under tokenizer
settings other than the current configuration are marked stale.

Examples:
  bayes models
  bayes models --delete old-spam`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVar(&modelsDelete, "delete", "", "delete the named model")
}

func runModels(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if modelsDelete != "" {
		if err := sess.models.Delete(modelsDelete); err != nil {
			return err
		}
		fmt.Printf("Deleted model %s\n", modelsDelete)
		return nil
	}

	statuses, err := sess.models.List()
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Println("No models stored")
		return nil
	}

	for _, s := range statuses {
		marker := " "
		if s.Name == sess.name {
			marker = "*"
		}
		fmt.Printf("%s %-20s %4d categories %8d documents  %s",
			marker, s.Name, len(s.Info.Categories), s.Info.TotalDocuments,
			s.UpdatedAt.Format("2006-01-02 15:04"))
		if s.Stale {
			fmt.Printf("  (stale)")
		}
		fmt.Println()
		if s.Stale {
			GetLogger().V(logging.VERBOSE).Info("Stale model", "model", s.Name, "reason", s.StaleReason)
		}
	}
	return nil
}
