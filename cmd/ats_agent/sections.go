package main

import (
	"context"

	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Show the section headers and bullets detected in a resume",
	RunE:  runSections,
}

var sectionsFile string

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsFile, "file", "f", "", "Path to the resume file")
	_ = sectionsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.readDocument(ctx, sectionsFile)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSections(
		result.Formatting.Sections,
		a.detector.BulletsPerSection(result.Text),
		a.detector.ExperienceBullets(result.Text),
	)
	return nil
}
