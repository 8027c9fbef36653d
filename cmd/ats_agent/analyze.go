package main

import (
	"context"
	"fmt"

	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Match a resume against job requirements",
	Long:  "Compare a resume with the phrases of a JobData JSON file and report matching, missing and actionable keywords.",
	RunE:  runAnalyze,
}

var (
	analyzeResume string
	analyzeJob    string
	analyzeJSON   bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume file")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to a JobData JSON file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")
	_ = analyzeCmd.MarkFlagRequired("resume")
	_ = analyzeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	job, err := readJobData(analyzeJob)
	if err != nil {
		return err
	}
	doc, err := a.readDocument(ctx, analyzeResume)
	if err != nil {
		return err
	}

	req := types.AnalyzeRequest{ResumeText: doc.Text, JobData: job}
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := a.engine.Match(ctx, req.ResumeText, req.JobData)
	if err != nil {
		return fmt.Errorf("keyword analysis failed: %w", err)
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintMatchResult(result)
	return nil
}
