package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/ooddb/ooddb/dataset"
	"github.com/ooddb/ooddb/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the dataset root directories",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured dataset roots",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <dataset> <path>",
	Short: "Set the root directory of a dataset",
	Long: `Store the root directory of a dataset in ~/.ooddb/config.json.

The path is stored verbatim; a leading ~ is expanded when it is used.

Examples:
  ooddb config set dtd /mnt/datasets/dtd
  ooddb config set sun ~/data/SUN397`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

var flagConfigFormat string

func init() {
	configShowCmd.Flags().StringVarP(&flagConfigFormat, "format", "f", formatText, "Output format: text, json or yaml")
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(flagConfigFormat, formatText, formatJSON, formatYAML); err != nil {
		return err
	}
	store, err := config.DefaultStore()
	if err != nil {
		return err
	}
	roots, _, err := store.Ensure()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagConfigFormat != formatText {
		return writeStructured(w, flagConfigFormat, map[string]string(roots))
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range roots.Names() {
		fmt.Fprintf(tw, "%s\t%s\n", name, roots[name])
	}
	return tw.Flush()
}

func runConfigSet(_ *cobra.Command, args []string) error {
	kind, err := dataset.ParseKind(args[0])
	if err != nil {
		return err
	}
	store, err := config.DefaultStore()
	if err != nil {
		return err
	}
	if err := store.Set(kind.String(), args[1]); err != nil {
		return err
	}
	printOK(kind.String(), fmt.Sprintf("root set to %s", args[1]))
	return nil
}
