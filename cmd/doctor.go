package cmd

import (
	"fmt"
	"os"

	"github.com/ooddb/ooddb/dataset"
	"github.com/ooddb/ooddb/internal/config"
	"github.com/ooddb/ooddb/internal/manifest"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the config file, dataset roots and split manifests",
	Long: `Check that ooddb's environment is correctly configured.
Run this command when a dataset fails to load, or before filing a bug report.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	printSection("ooddb doctor")
	var problems int

	// ── Config file ───────────────────────────────────────────────────────────
	fmt.Println("\n[ Config ]")
	store, err := config.DefaultStore()
	if err != nil {
		return err
	}
	var roots config.Roots
	if ok, err := store.Exists(); err != nil {
		printErr("", err.Error())
		problems++
	} else if !ok {
		printWarn("", fmt.Sprintf("%s does not exist; it is created with defaults on first use (or run 'ooddb init')", store.Path()))
		roots = config.DefaultRoots()
	} else if roots, err = config.Load(afero.NewOsFs(), store.Path()); err != nil {
		printErr("", err.Error())
		problems++
	} else {
		printOK("", store.Path())
	}

	// ── Dataset roots ─────────────────────────────────────────────────────────
	fmt.Println("\n[ Dataset roots ]")
	for _, kind := range dataset.Kinds() {
		name := kind.String()
		raw, ok := roots[name]
		if !ok {
			if roots != nil {
				printErr(name, "missing from config")
				problems++
			}
			continue
		}
		root, err := config.ExpandPath(raw)
		if err != nil {
			printErr(name, err.Error())
			problems++
			continue
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			printMiss(name, fmt.Sprintf("%s (not found)", root))
			problems++
			continue
		}
		printOK(name, root)
	}

	// ── Split manifests ───────────────────────────────────────────────────────
	fmt.Println("\n[ Split manifests ]")
	fs, dir, err := openSplits()
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		printErr("", fmt.Sprintf("split directory %s not found", dir))
		problems++
	} else {
		for _, kind := range dataset.Kinds() {
			refs, err := manifest.List(fs, kind.String())
			if err != nil {
				printErr(kind.String(), err.Error())
				problems++
				continue
			}
			if len(refs) == 0 {
				printWarn(kind.String(), "no manifests")
				continue
			}
			printOK(kind.String(), fmt.Sprintf("%d manifest(s)", len(refs)))
		}
	}

	fmt.Println()
	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	printOK("", "all checks passed")
	return nil
}
