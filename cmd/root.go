package cmd

import (
	"fmt"
	"os"

	"github.com/ooddb/ooddb/dataset"
	"github.com/ooddb/ooddb/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	flagSplitsDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:          "ooddb",
	Short:        "ooddb — OOD detection benchmark split resolver",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `ooddb maps a (dataset, split, order) triple of the OOD detection benchmark
to image paths and labels, using the split manifests under ~/.ooddb/splits/
and the dataset roots in ~/.ooddb/config.json.

Supported datasets: domainnet, dtd, patternnet, stanford_cars, sun.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := zerolog.InfoLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSplitsDir, "splits", "", "Split manifest directory (default $OODDB_SPLITS or ~/.ooddb/splits)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// splitsDir returns the manifest directory selected by --splits or the config.
func splitsDir() (string, error) {
	if flagSplitsDir != "" {
		return config.ExpandPath(flagSplitsDir)
	}
	return config.SplitsDir()
}

// openSplits returns a read-only filesystem rooted at the manifest directory.
func openSplits() (afero.Fs, string, error) {
	dir, err := splitsDir()
	if err != nil {
		return nil, "", err
	}
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), dir, nil
}

// parseTarget reads the <dataset> <split> positional arguments.
func parseTarget(args []string) (dataset.Kind, string, error) {
	kind, err := dataset.ParseKind(args[0])
	if err != nil {
		return 0, "", err
	}
	return kind, args[1], nil
}
