package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/noah-vh/masterlist/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show the tag vocabulary",
	RunE:  runVocab,
}

var categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func runVocab(cmd *cobra.Command, args []string) error {
	for _, c := range vocab.Categories() {
		fmt.Println(categoryStyle.Render(string(c)))
		for _, e := range vocab.Entries(c) {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("■")
			fmt.Printf("  %s %-12s %s\n", swatch, e.Tag, e.Label)
		}
		fmt.Println()
	}
	return nil
}
