package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newFiltersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List available categories, merchants and countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeService, err := newCatalogService("")
			if err != nil {
				return err
			}
			defer closeService()

			vocabulary := service.GetFilterVocabulary(cmd.Context())
			out := cmd.OutOrStdout()
			if flagJSON {
				return writeJSON(out, vocabulary)
			}

			printList := func(label string, values []string) {
				if len(values) == 0 {
					fmt.Fprintf(out, "%s: (none)\n", label)
					return
				}
				fmt.Fprintf(out, "%s: %s\n", label, strings.Join(values, ", "))
			}
			printList("Categories", vocabulary.Categories)
			printList("Merchants", vocabulary.Merchants)
			printList("Countries", vocabulary.AllowedCountries)
			return nil
		},
	}
}
