package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/applicant-ranker/internal/observability"
	"github.com/jonathan/applicant-ranker/internal/schemas"
	"github.com/jonathan/applicant-ranker/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank applicants for a job",
	Long:  "Scores every applicant against the job, sorts them with the multi-key cascade, breaks close ties with bounded AI adjustments and writes the ranked list as JSON.",
	RunE:  runRank,
}

var (
	rankJob        string
	rankApplicants string
	rankOutput     string
	rankNoAI       bool
	rankPretty     bool
)

func init() {
	rankCmd.Flags().StringVar(&rankJob, "job", "", "Path to the job requirements JSON file (required)")
	rankCmd.Flags().StringVar(&rankApplicants, "applicants", "", "Path to the applicants JSON array (required)")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	rankCmd.Flags().BoolVar(&rankNoAI, "no-ai", false, "Skip AI classification, tie-breaking and insights")
	rankCmd.Flags().BoolVar(&rankPretty, "pretty", false, "Print a human-readable table instead of JSON")

	if err := rankCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := rankCmd.MarkFlagRequired("applicants"); err != nil {
		panic(fmt.Sprintf("failed to mark applicants flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	var job types.JobRequirements
	if err := readJSON(rankJob, &job); err != nil {
		return err
	}
	var applicants []types.ApplicantData
	if err := readJSON(rankApplicants, &applicants); err != nil {
		return err
	}

	a, err := newApplication(cmd.Context(), buildOptions{noAI: rankNoAI})
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.pipeline.RankApplicantsForJob(cmd.Context(), &job, applicants)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	// The result is checked against its published schema; a mismatch is a bug
	// worth logging but not worth losing the run over.
	if data, err := json.Marshal(result); err == nil {
		if err := schemas.Validate(schemas.RankingResult, string(data)); err != nil {
			a.log.Warn("ranking result does not match schema", zap.Error(err))
		}
	}

	if rankPretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintRanking(result)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), rankOutput, result)
}
