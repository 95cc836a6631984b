package cmd

import (
	"fmt"
	"os"

	"github.com/ooddb/ooddb/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.ooddb/ with the default dataset roots",
	Long: `Initialize ooddb's user directory.

Writes ~/.ooddb/config.json with the default dataset roots if it does not
exist yet, and creates the split manifest directory. An existing config is
left untouched; use 'ooddb config set' to change a root.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Config file ────────────────────────────────────────────────────────
	store, err := config.DefaultStore()
	if err != nil {
		return err
	}
	roots, created, err := store.Ensure()
	if err != nil {
		return err
	}
	if created {
		printOK("", fmt.Sprintf("Config written: %s", store.Path()))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", store.Path()))
	}

	// ── 2. Split manifest directory ───────────────────────────────────────────
	dir, err := splitsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("Split directory ready: %s", dir))

	// ── 3. Report dataset roots ───────────────────────────────────────────────
	for _, name := range roots.Names() {
		root, err := config.ExpandPath(roots[name])
		if err != nil {
			printErr(name, err.Error())
			continue
		}
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			printOK(name, root)
		} else {
			printMiss(name, fmt.Sprintf("%s (not found)", root))
		}
	}
	printInfo("", "Run 'ooddb doctor' to check manifests and roots.")
	return nil
}
