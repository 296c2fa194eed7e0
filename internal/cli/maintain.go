package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

var (
	pruneMinFrequency int
	resetYes          bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Rebuild the model vocabulary",
	Long: `Rebuild the vocabulary from the per-category word tables and save
the model. Learned counts are not changed.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget everything the model has learned",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(resetCmd)
	pruneCmd.Flags().IntVar(&pruneMinFrequency, "min-frequency", 1, "minimum token frequency (accepted for forward compatibility; counts are kept)")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")
}

func runPrune(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	model, err := sess.open()
	if err != nil {
		return err
	}

	before := model.VocabularySize()
	model.Prune(pruneMinFrequency)
	if err := sess.save(model); err != nil {
		return err
	}

	fmt.Printf("Vocabulary: %d -> %d words\n", before, model.VocabularySize())
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if !resetYes {
		if !isInteractive() {
			return fmt.Errorf("refusing to reset without confirmation; use --yes")
		}
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Reset model %s?", sess.name),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	model, err := sess.open()
	if err != nil {
		return err
	}
	model.Reset()
	if err := sess.save(model); err != nil {
		return err
	}

	fmt.Printf("Model %s reset\n", sess.name)
	return nil
}
