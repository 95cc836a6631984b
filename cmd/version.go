package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/ooddb/ooddb/internal/config"
	"github.com/spf13/cobra"
)

// Stamped at release time:
//
//	go build -ldflags "-X github.com/ooddb/ooddb/cmd.version=v1.2.0 -X github.com/ooddb/ooddb/cmd.commit=$(git rev-parse --short HEAD) -X github.com/ooddb/ooddb/cmd.buildDate=$(date -u +%Y-%m-%d)"
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var flagVersionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ooddb version, build and location information",
	Long: `Print the ooddb release, the commit it was built from and where it looks
for its config file and split manifests. Paste the full output into bug reports.

Use --short to print only the release (handy in scripts).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeVersion(cmd.OutOrStdout(), flagVersionShort)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionShort, "short", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}

func writeVersion(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, version)
		return err
	}
	fmt.Fprintf(w, "ooddb %s (%s, built %s)\n", version, orNA(commit), orNA(buildDate))
	fmt.Fprintf(w, "  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if p, err := config.Path(); err == nil {
		fmt.Fprintf(w, "  config:   %s\n", p)
	}
	dir, err := splitsDir()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  splits:   %s\n", dir)
	return err
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
