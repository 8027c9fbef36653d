package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract normalized text from a resume",
	Long:  "Extract text from a PDF, DOCX or plain-text resume, falling back to OCR for scanned PDFs, and print it with a formatting summary.",
	RunE:  runExtract,
}

var (
	extractFile string
	extractOut  string
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to the resume file")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Write the extracted text to this file (plus a .meta.json sidecar) instead of stdout")
	_ = extractCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.readDocument(ctx, extractFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if extractOut != "" {
		if err := os.WriteFile(extractOut, []byte(result.Text), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Output: %s\n", extractOut)

		meta := ingestion.NewMetadata(result.Text, extractFile)
		meta.Source = result.Source
		metaJSON, err := meta.ToJSON()
		if err != nil {
			return err
		}
		metaPath := extractOut + ".meta.json"
		if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
			return fmt.Errorf("failed to write metadata file: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Metadata: %s\n", metaPath)
	} else {
		_, _ = fmt.Fprintln(out, result.Text)
	}

	observability.NewPrinter(out).PrintExtraction(result)
	return nil
}
