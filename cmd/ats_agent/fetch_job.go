package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fetchJobCmd = &cobra.Command{
	Use:   "fetch-job",
	Short: "Download a job posting as plain text",
	Long:  "Fetch a job posting from Greenhouse, Lever, Workday, Ashby or a generic careers page and print its description text.",
	RunE:  runFetchJob,
}

var (
	fetchJobURL     string
	fetchJobOut     string
	fetchJobBrowser bool
	fetchJobJSON    bool
)

func init() {
	fetchJobCmd.Flags().StringVarP(&fetchJobURL, "url", "u", "", "Job posting URL")
	fetchJobCmd.Flags().StringVarP(&fetchJobOut, "out", "o", "", "Write the description to this file")
	fetchJobCmd.Flags().BoolVar(&fetchJobBrowser, "browser", false, "Render the posting in headless Chrome when the page is script-driven")
	fetchJobCmd.Flags().BoolVar(&fetchJobJSON, "json", false, "Print the posting as JSON")
	_ = fetchJobCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(fetchJobCmd)
}

func runFetchJob(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	posting, err := a.fetcher(fetchJobBrowser).Fetch(ctx, fetchJobURL)
	if err != nil {
		return err
	}

	if fetchJobOut != "" {
		if err := os.WriteFile(fetchJobOut, []byte(posting.Text), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if fetchJobJSON {
		return writeJSON(out, posting)
	}
	if fetchJobOut != "" {
		_, _ = fmt.Fprintf(out, "Output: %s\n", fetchJobOut)
		return nil
	}
	if posting.Title != "" {
		_, _ = fmt.Fprintf(out, "%s\n\n", posting.Title)
	}
	_, _ = fmt.Fprintln(out, posting.Text)
	return nil
}
