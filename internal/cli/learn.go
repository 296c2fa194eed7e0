package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"bayes/internal/adapter/analyzer"
	"bayes/internal/adapter/fs"
	"bayes/internal/port"
)

const newCategoryOption = "+ new category"

var (
	learnCategory string
	learnFile     string
	learnHTML     bool
)

var learnCmd = &cobra.Command{
	Use:   "learn [text]",
	Short: "Learn one labeled document",
	Long: `Learn one document under a category and save the model.
The document is the argument text, the contents of --file, or standard
input. Without --category an interactive terminal prompts for one.

Examples:
  bayes learn -c positive "amazing, awesome movie"
  bayes learn -c spam --file mail.txt
  cat page.html | bayes learn -c news --html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLearn,
}

func init() {
	rootCmd.AddCommand(learnCmd)
	learnCmd.Flags().StringVarP(&learnCategory, "category", "c", "", "category label")
	learnCmd.Flags().StringVar(&learnFile, "file", "", "read the document from a file")
	learnCmd.Flags().BoolVar(&learnHTML, "html", false, "treat the document as HTML and learn its visible text")
}

func runLearn(cmd *cobra.Command, args []string) error {
	text, err := readDocument(cmd, args, learnFile)
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

	category := learnCategory
	if category == "" {
		if !isInteractive() {
			return fmt.Errorf("no category given; use --category")
		}
		category, err = promptCategory(model.Categories())
		if err != nil {
			return err
		}
	}

	var in port.Input
	if learnHTML || isHTMLPath(learnFile) {
		in = port.Object(analyzer.NewHTMLDocument(text))
	} else {
		in = port.Text(text)
	}
	model.Learn(in, category)

	if err := sess.save(model); err != nil {
		return err
	}

	fmt.Printf("Learned 1 document as %q (model %s: %d documents, %d words in vocabulary)\n",
		category, sess.name, model.TotalDocuments(), model.VocabularySize())
	return nil
}

// readDocument returns the text argument, the named file, or standard input.
func readDocument(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case len(args) > 0:
		return args[0], nil
	case file != "":
		text, err := fs.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return text, nil
	case !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()):
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("no document given; pass text, --file or pipe to standard input")
	}
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

// promptCategory asks for a category, offering the known ones first.
func promptCategory(known []string) (string, error) {
	var category string
	if len(known) > 0 {
		prompt := &survey.Select{
			Message: "Select a category:",
			Options: append(known, newCategoryOption),
		}
		if err := survey.AskOne(prompt, &category); err != nil {
			return "", err
		}
		if category != newCategoryOption {
			return category, nil
		}
	}

	prompt := &survey.Input{
		Message: "Enter a new category:",
	}
	if err := survey.AskOne(prompt, &category, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(category), nil
}

func isHTMLPath(path string) bool {
	if path == "" {
		return false
	}
	lower := strings.ToLower(path)
	for _, ext := range GetConfig().Train.HTMLExtensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
