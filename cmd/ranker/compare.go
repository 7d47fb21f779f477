package main

import (
	"fmt"

	"github.com/jonathan/applicant-ranker/internal/observability"
	"github.com/jonathan/applicant-ranker/internal/types"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two applicants for a job",
	Long:  "Scores two applicants with the ensemble, names the winner (or a tie) and explains the per-component differences.",
	RunE:  runCompare,
}

var (
	compareJob    string
	compareFirst  string
	compareSecond string
	compareNoAI   bool
	comparePretty bool
)

func init() {
	compareCmd.Flags().StringVar(&compareJob, "job", "", "Path to the job requirements JSON file (required)")
	compareCmd.Flags().StringVar(&compareFirst, "applicant1", "", "Path to the first applicant JSON file (required)")
	compareCmd.Flags().StringVar(&compareSecond, "applicant2", "", "Path to the second applicant JSON file (required)")
	compareCmd.Flags().BoolVar(&compareNoAI, "no-ai", false, "Skip AI classification and the comparison narrative")
	compareCmd.Flags().BoolVar(&comparePretty, "pretty", false, "Print a human-readable table instead of JSON")

	for _, name := range []string{"job", "applicant1", "applicant2"} {
		if err := compareCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	var (
		job    types.JobRequirements
		first  types.ApplicantData
		second types.ApplicantData
	)
	if err := readJSON(compareJob, &job); err != nil {
		return err
	}
	if err := readJSON(compareFirst, &first); err != nil {
		return err
	}
	if err := readJSON(compareSecond, &second); err != nil {
		return err
	}

	a, err := newApplication(cmd.Context(), buildOptions{noAI: compareNoAI})
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.pipeline.CompareApplicants(cmd.Context(), &job, &first, &second)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if comparePretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintComparison(result)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), "", result)
}
