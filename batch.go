package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/muesli/gitcha"
	"github.com/spf13/cobra"
)

// renderDir renders every matching file below dir, honoring .gitignore,
// into a sibling .ssml file. A failing file is reported and the rest still
// render.
func renderDir(cmd *cobra.Command, kind, dir string) error {
	ch, err := gitcha.FindFilesExcept(dir, dirPatterns(kind), nil)
	if err != nil {
		return fmt.Errorf("unable to search %s: %w", dir, err)
	}

	var rendered, failed int
	for res := range ch {
		if res.Info != nil && res.Info.IsDir() {
			continue
		}
		if err := renderFile(cmd, kind, res.Path); err != nil {
			printError(fmt.Errorf("%s: %w", res.Path, err))
			failed++
			continue
		}
		rendered++
	}

	log.Debug("directory rendered", "dir", dir, "rendered", rendered, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errBatch, failed, rendered+failed)
	}
	if rendered == 0 {
		fmt.Fprintln(os.Stderr, paragraph("No sources found in "+keyword(dir)+"."))
	}
	return nil
}

func renderFile(cmd *cobra.Command, kind, path string) error {
	if kind == "" {
		kind = kindOf(path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read file: %w", err)
	}
	out, err := render(cmd, kind, path, body)
	if err != nil {
		return err
	}

	dest := outputPath(path)
	if err := os.WriteFile(dest, []byte(out+"\n"), 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write %s: %w", dest, err)
	}
	rel, err := filepath.Rel(filepath.Dir(path), dest)
	if err != nil {
		rel = dest
	}
	fmt.Fprintln(os.Stderr, paragraph("Wrote "+keyword(rel)+"."))
	return nil
}
