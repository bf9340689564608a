package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Render

	paragraph = lipgloss.NewStyle().
			Width(78).
			Padding(0, 0, 0, 2).
			Render

	errorText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Render
)

// printError reports err on stderr without stopping a watch loop.
func printError(err error) {
	fmt.Fprintln(os.Stderr, paragraph(errorText("Error: ")+err.Error()))
}
