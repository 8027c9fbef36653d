package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rewrite a resume around selected keywords",
	Long:  "Ask the LLM to weave the selected keywords into a resume, then verify integration and score the result.",
	RunE:  runOptimize,
}

var (
	optimizeResume      string
	optimizeDescription string
	optimizeJobURL      string
	optimizeBrowser     bool
	optimizeKeywords    string
	optimizeTitle       string
	optimizeOut         string
	optimizeJSON        bool
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeResume, "resume", "r", "", "Path to the resume file")
	optimizeCmd.Flags().StringVarP(&optimizeDescription, "job-description", "d", "", "Path to a plain-text job description")
	optimizeCmd.Flags().StringVar(&optimizeJobURL, "job-url", "", "Fetch the job description from a posting URL")
	optimizeCmd.Flags().BoolVar(&optimizeBrowser, "browser", false, "Render the posting in headless Chrome when the page is script-driven")
	optimizeCmd.Flags().StringVarP(&optimizeKeywords, "keywords", "k", "", "Comma-separated keywords to integrate")
	optimizeCmd.Flags().StringVarP(&optimizeTitle, "title", "t", "", "Job title")
	optimizeCmd.Flags().StringVarP(&optimizeOut, "out", "o", "", "Write the optimized resume to this file")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "Print the result as JSON")
	_ = optimizeCmd.MarkFlagRequired("resume")
	optimizeCmd.MarkFlagsOneRequired("job-description", "job-url")
	optimizeCmd.MarkFlagsMutuallyExclusive("job-description", "job-url")
	_ = optimizeCmd.MarkFlagRequired("keywords")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	doc, err := a.readDocument(ctx, optimizeResume)
	if err != nil {
		return err
	}
	description, title, err := a.jobDescription(ctx)
	if err != nil {
		return err
	}

	req := types.OptimizeRequest{
		OriginalResumeText: doc.Text,
		JobDescription:     description,
		JobTitle:           title,
	}
	for _, k := range splitKeywords(optimizeKeywords) {
		req.SelectedKeywords = append(req.SelectedKeywords, types.SelectedKeyword{Keyword: k})
	}
	if err := req.Validate(); err != nil {
		return err
	}

	result := a.optimizer.Optimize(ctx, req)
	if result.Success && optimizeOut != "" {
		if err := os.WriteFile(optimizeOut, []byte(result.OptimizedResume), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	if optimizeJSON {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintOptimization(result)
	}

	if !result.Success {
		return errors.New(result.Message)
	}
	return nil
}

// jobDescription reads the description from a file or fetches it from a posting URL. The
// posting's title is used when --title is not given.
func (a *app) jobDescription(ctx context.Context) (description, title string, err error) {
	if optimizeJobURL == "" {
		description, err = readText(optimizeDescription)
		return description, optimizeTitle, err
	}

	posting, err := a.fetcher(optimizeBrowser).Fetch(ctx, optimizeJobURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch job posting: %w", err)
	}
	title = optimizeTitle
	if title == "" {
		title = posting.Title
	}
	return posting.Text, title, nil
}
