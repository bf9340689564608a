package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

const maxWrap = 120

// writeOutput writes out to w. Terminals get a trailing newline and, when
// enabled, highlighted XML. The clipboard always receives the raw markup.
func writeOutput(w io.Writer, out string) error {
	display := out
	if isTerminal(w) {
		display = out + "\n"
		if cfg.Pretty {
			if p, err := prettify(out, termWidth(w)); err == nil {
				display = p
			} else {
				log.Debug("could not highlight output", "error", err)
			}
		}
	}

	if _, err := fmt.Fprint(w, display); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}

	if cfg.Copy {
		if err := clipboard.WriteAll(strings.TrimSpace(out)); err != nil {
			log.Warn("Could not copy to clipboard", "error", err)
			return nil
		}
		fmt.Fprintln(os.Stderr, paragraph(keyword("Copied to clipboard.")))
	}
	return nil
}

// prettify renders out as a highlighted xml code block.
func prettify(out string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	s, err := r.Render("```xml\n" + out + "\n```\n")
	if err != nil {
		return "", fmt.Errorf("unable to render output: %w", err)
	}
	return s, nil
}

func termWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return maxWrap
	}
	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec
	if err != nil || width <= 0 || width > maxWrap {
		return maxWrap
	}
	return width
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}
