package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ooddb/ooddb/dataset"
	"github.com/spf13/cobra"
)

var (
	flagClassesOrder  int
	flagClassesFormat string
)

var classesCmd = &cobra.Command{
	Use:   "classes <dataset> <split>",
	Short: "Print the class ids, names and image counts of a split",
	Long: `Print the class id → natural name dictionary of a split together with
the number of images per class.

Example:
  ooddb classes sun train --order 2`,
	Args: cobra.ExactArgs(2),
	RunE: runClasses,
}

func init() {
	classesCmd.Flags().IntVarP(&flagClassesOrder, "order", "o", 0, "Data order (0, 1 or 2)")
	classesCmd.Flags().StringVarP(&flagClassesFormat, "format", "f", formatText, "Output format: text, json or yaml")
	rootCmd.AddCommand(classesCmd)
}

// classInfo is one class row as printed by classes.
type classInfo struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Images int    `json:"images" yaml:"images"`
}

func runClasses(cmd *cobra.Command, args []string) error {
	if err := checkFormat(flagClassesFormat, formatText, formatJSON, formatYAML); err != nil {
		return err
	}
	s, err := resolveArgs(args, flagClassesOrder)
	if err != nil {
		return err
	}
	classes := summarizeClasses(s)
	if flagClassesFormat != formatText {
		return writeStructured(cmd.OutOrStdout(), flagClassesFormat, classes)
	}
	return writeClassesText(cmd.OutOrStdout(), classes, s.Len())
}

// summarizeClasses returns one row per class id, sorted by id.
func summarizeClasses(s *dataset.Split) []classInfo {
	counts := make(map[int]int, len(s.ClassNames))
	for _, l := range s.Labels {
		counts[l]++
	}
	out := make([]classInfo, 0, len(s.ClassNames))
	for id, name := range s.ClassNames {
		out = append(out, classInfo{ID: id, Name: name, Images: counts[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func writeClassesText(w io.Writer, classes []classInfo, total int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tIMAGES")
	for _, c := range classes {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", c.ID, c.Name, c.Images)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d classes, %d images\n", len(classes), total)
	return err
}
