package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the model as JSON",
	Long: `Write the model's JSON state to standard output or a file. The
output can be loaded back with 'bayes import'.

Examples:
  bayes export > model.json
  bayes export -m spam --out spam.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Load a model from JSON",
	Long: `Load a model's JSON state, replacing the named model.
Use - to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default is standard output)")
}

func runExport(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	data, err := sess.models.Export(sess.name)
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	fmt.Printf("Exported model %s to %s\n", sess.name, exportOut)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read model: %w", err)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	model, err := sess.models.Import(sess.name, data)
	if err != nil {
		return err
	}

	fmt.Printf("Imported model %s: %d categories, %d documents\n",
		sess.name, len(model.Categories()), model.TotalDocuments())
	return nil
}
