// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for human-readable mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRanking outputs the ranked applicants with their component scores.
func (p *Printer) PrintRanking(result *types.RankingResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:        %s\n", result.JobTitle))
	sb.WriteString(fmt.Sprintf("Run:        %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Applicants: %d (tie groups: %d)\n", len(result.Ranked), result.TieGroups))

	if len(result.Ranked) == 0 {
		sb.WriteString("\nNo applicants to rank.")
		p.printBox("RANKING", sb.String())
		return
	}
	sb.WriteString("\n")

	count := min(len(result.Ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		row := result.Ranked[i]
		name := row.Name
		if name == "" {
			name = row.ApplicantID
		}
		sb.WriteString(fmt.Sprintf("#%d  %s  %.2f\n", row.Rank, name, row.MatchScore))
		sb.WriteString(fmt.Sprintf("    Edu %.0f  Exp %.0f  Skills %.0f  Elig %.0f\n",
			row.EducationScore, row.ExperienceScore, row.SkillsScore, row.EligibilityScore))
		sb.WriteString(fmt.Sprintf("    %s", row.AlgorithmUsed))
		if row.AIAdjustment != 0 {
			sb.WriteString(fmt.Sprintf("  (AI %+.2f)", row.AIAdjustment))
		}
		sb.WriteString("\n")
		if row.Insight != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", row.Insight))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(result.Ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more applicants", len(result.Ranked)-maxItemsToShow))
	}

	p.printBox("RANKING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs a head-to-head comparison.
func (p *Printer) PrintComparison(result *types.ComparisonResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-12s %10s %10s\n", "", "Applicant 1", "Applicant 2"))
	rows := []struct {
		label  string
		v1, v2 float64
	}{
		{"Education", result.Applicant1.EducationScore, result.Applicant2.EducationScore},
		{"Experience", result.Applicant1.ExperienceScore, result.Applicant2.ExperienceScore},
		{"Skills", result.Applicant1.SkillsScore, result.Applicant2.SkillsScore},
		{"Eligibility", result.Applicant1.EligibilityScore, result.Applicant2.EligibilityScore},
		{"Total", result.Applicant1.TotalScore, result.Applicant2.TotalScore},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-12s %10.2f %10.2f\n", r.label, r.v1, r.v2))
	}
	sb.WriteString(fmt.Sprintf("\nWinner: %s\n\n", result.Winner))
	sb.WriteString(result.Analysis)

	p.printBox("COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNormalization outputs the per-term normalization of one line.
func (p *Printer) PrintNormalization(kind, input, normalized string, terms []types.NormalizationResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Input:      %s\n", input))
	sb.WriteString(fmt.Sprintf("Normalized: %s\n", normalized))

	if len(terms) > 0 {
		sb.WriteString("\n")
	}
	for _, t := range terms {
		key := "-"
		if t.CanonicalKey != nil {
			key = *t.CanonicalKey
		}
		sb.WriteString(fmt.Sprintf("• %s → %s\n", t.Raw, key))
		sb.WriteString(fmt.Sprintf("  %s (confidence %.2f)\n", t.Method, t.Confidence))
	}

	p.printBox(strings.ToUpper(kind)+" NORMALIZATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDictionaryStatus outputs what was loaded for each dictionary.
func (p *Printer) PrintDictionaryStatus(status dictionary.Status) {
	var sb strings.Builder
	for _, d := range []struct {
		name string
		s    dictionary.DomainStatus
	}{
		{"Degrees", status.Degrees},
		{"Eligibilities", status.Eligibilities},
	} {
		sb.WriteString(fmt.Sprintf("%-14s %d entries  %s\n", d.name, d.s.Entries, d.s.Source))
		if d.s.Error != "" {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", d.s.Error))
		}
	}
	p.printBox("DICTIONARIES", strings.TrimSuffix(sb.String(), "\n"))
}
