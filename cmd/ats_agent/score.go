package main

import (
	"context"

	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/jonathan/ats-optimizer/internal/scoring"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an optimized resume against the original",
	Long:  "Verify which keywords an optimized resume contains and compute its weighted ATS score relative to the original.",
	RunE:  runScore,
}

var (
	scoreOriginal  string
	scoreOptimized string
	scoreJob       string
	scoreKeywords  string
	scoreJSON      bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreOriginal, "original", "", "Path to the original resume file")
	scoreCmd.Flags().StringVar(&scoreOptimized, "optimized", "", "Path to the optimized resume file")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to a JobData JSON file")
	scoreCmd.Flags().StringVarP(&scoreKeywords, "keywords", "k", "", "Comma-separated keywords that were requested")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the result as JSON")
	_ = scoreCmd.MarkFlagRequired("original")
	_ = scoreCmd.MarkFlagRequired("optimized")

	rootCmd.AddCommand(scoreCmd)
}

// scoreReport is the JSON output of the score command.
type scoreReport struct {
	AtsScore            int                       `json:"atsScore"`
	KeywordVerification types.KeywordVerification `json:"keywordVerification"`
	ScoreBreakdown      types.ScoreBreakdown      `json:"scoreBreakdown"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	original, err := a.readDocument(ctx, scoreOriginal)
	if err != nil {
		return err
	}
	optimized, err := a.readDocument(ctx, scoreOptimized)
	if err != nil {
		return err
	}
	job, err := readJobData(scoreJob)
	if err != nil {
		return err
	}

	req := types.ScoreRequest{
		OptimizedText: optimized.Text,
		OriginalText:  original.Text,
		JobData:       job,
		Keywords:      splitKeywords(scoreKeywords),
	}
	if err := req.Validate(); err != nil {
		return err
	}

	verification := scoring.Verify(req.OptimizedText, req.Keywords)
	breakdown := a.scorer.Breakdown(ctx, types.AtsScoreInputs{
		OptimizedText: req.OptimizedText,
		OriginalText:  req.OriginalText,
		JobData:       req.JobData,
		Verification:  verification,
	})

	if scoreJSON {
		return writeJSON(cmd.OutOrStdout(), scoreReport{
			AtsScore:            breakdown.Total,
			KeywordVerification: verification,
			ScoreBreakdown:      breakdown,
		})
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintScore(&verification, &breakdown)
	return nil
}
