package main

import (
	"fmt"

	"github.com/jonathan/applicant-ranker/internal/observability"
	"github.com/spf13/cobra"
)

var dictionariesCmd = &cobra.Command{
	Use:   "dictionaries",
	Short: "Load the canonical dictionaries and report what was found",
	RunE:  runDictionaries,
}

var dictionariesStrict bool

func init() {
	dictionariesCmd.Flags().BoolVar(&dictionariesStrict, "strict", false, "Fail when either dictionary is missing or empty")
	rootCmd.AddCommand(dictionariesCmd)
}

func runDictionaries(cmd *cobra.Command, _ []string) error {
	a, err := newApplication(cmd.Context(), buildOptions{noAI: true})
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.loader.EnsureLoaded(cmd.Context()); err != nil {
		return err
	}
	status := a.loader.Status()
	observability.NewPrinter(cmd.OutOrStdout()).PrintDictionaryStatus(status)

	if dictionariesStrict {
		for name, d := range map[string]int{"degrees": status.Degrees.Entries, "eligibilities": status.Eligibilities.Entries} {
			if d == 0 {
				return fmt.Errorf("%s dictionary is empty or unavailable", name)
			}
		}
	}
	return nil
}
