package cmd

import (
	"fmt"

	"github.com/ooddb/ooddb/dataset"
	"github.com/ooddb/ooddb/internal/manifest"
	"github.com/spf13/cobra"
)

// publishedOrders are the data orders shipped for every split.
var publishedOrders = []int{0, 1, 2}

var splitsCmd = &cobra.Command{
	Use:   "splits [dataset...]",
	Short: "List the split manifests available for each dataset",
	Long: `List which (split, order) manifests are installed in the split directory.

Published splits that are missing are shown with '-', manifests that are not
part of the published benchmark with '~'.

Examples:
  ooddb splits
  ooddb splits domainnet`,
	RunE: runSplits,
}

func init() {
	rootCmd.AddCommand(splitsCmd)
}

func runSplits(_ *cobra.Command, args []string) error {
	kinds := dataset.Kinds()
	if len(args) > 0 {
		kinds = kinds[:0:0]
		for _, a := range args {
			k, err := dataset.ParseKind(a)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}
	}

	fs, dir, err := openSplits()
	if err != nil {
		return err
	}
	fmt.Printf("Split directory: %s\n", dir)

	for _, kind := range kinds {
		refs, err := manifest.List(fs, kind.String())
		if err != nil {
			return err
		}
		present := make(map[manifest.Ref]bool, len(refs))
		for _, r := range refs {
			present[r] = true
		}

		printSection(kind.String())
		known := make(map[string]bool)
		for _, split := range kind.KnownSplits() {
			known[split] = true
			for _, order := range publishedOrders {
				ref := manifest.Ref{Dataset: kind.String(), Split: split, Order: order}
				if present[ref] {
					printOK("", fmt.Sprintf("%s_o%d", split, order))
				} else {
					printMiss("", fmt.Sprintf("%s_o%d", split, order))
				}
			}
		}
		for _, r := range refs {
			if !known[r.Split] || r.Order > 2 {
				printInfo("", fmt.Sprintf("%s_o%d (unpublished)", r.Split, r.Order))
			}
		}
	}
	return nil
}
