package cli

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"bayes/config"
	"bayes/internal/logging"
)

var (
	cfgFile   string
	cfg       *config.Config
	rootDir   string
	modelName string
	storeName string
	logLevel  string
	logger    logr.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bayes",
	Short: "Naive Bayes text classifier",
	Long: `Bayes trains multinomial Naive Bayes models on labeled text and
classifies new documents against them. Models are stored by name in
.bayes/ within the working directory.

Example usage:
  bayes learn -c spam "buy cheap pills now"   # Learn one document
  bayes train ./corpus                        # Learn a directory per category
  bayes classify "cheap pills"                # Pick the best category
  bayes classify -f percentage "cheap pills"  # Show every category's share`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if modelName != "" {
			cfg.Model.Name = modelName
		}
		if storeName != "" {
			cfg.Model.Store = storeName
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Development)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bayes.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "model name (default from config)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "model store: bolt, sqlite or memory (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: error, warn, info, verbose, debug, trace")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func GetLogger() logr.Logger {
	return logger
}
