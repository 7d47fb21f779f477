package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/normalize"
	"github.com/jonathan/applicant-ranker/internal/observability"
	"github.com/jonathan/applicant-ranker/internal/server"
	"github.com/jonathan/applicant-ranker/internal/types"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [text]",
	Short: "Canonicalize a degree or eligibility line",
	Long:  "Splits the line into terms, maps each term to its canonical dictionary entry (asking the AI classifier when the dictionary has no exact alias) and rebuilds the line.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNormalize,
}

var (
	normalizeKind   string
	normalizeNoAI   bool
	normalizePretty bool
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeKind, "kind", "k", "degree", "Dictionary to use: degree or eligibility")
	normalizeCmd.Flags().BoolVar(&normalizeNoAI, "no-ai", false, "Use the dictionaries only")
	normalizeCmd.Flags().BoolVar(&normalizePretty, "pretty", false, "Print a human-readable summary instead of JSON")

	rootCmd.AddCommand(normalizeCmd)
}

func parseDomain(kind string) (dictionary.Domain, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "degree", "degrees":
		return dictionary.Degrees, nil
	case "eligibility", "eligibilities":
		return dictionary.Eligibilities, nil
	default:
		return "", fmt.Errorf("unknown kind %q: must be degree or eligibility", kind)
	}
}

func runNormalize(cmd *cobra.Command, args []string) error {
	domain, err := parseDomain(normalizeKind)
	if err != nil {
		return err
	}
	input := strings.Join(args, " ")

	a, err := newApplication(cmd.Context(), buildOptions{noAI: normalizeNoAI})
	if err != nil {
		return err
	}
	defer a.close()

	normalized, terms := a.normalizer.NormalizeTerms(cmd.Context(), domain, input)
	if terms == nil {
		terms = []types.NormalizationResult{}
	}

	if normalizePretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintNormalization(normalizeKind, input, normalized, terms)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), "", server.NormalizeResponse{
		Kind:       strings.ToLower(normalizeKind),
		Input:      input,
		Expression: normalize.ParseExpression(input).Kind.String(),
		Normalized: normalized,
		Terms:      terms,
	})
}
