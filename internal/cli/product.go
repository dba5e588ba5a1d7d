package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/giftshelf/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a single product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeService, err := newCatalogService("")
			if err != nil {
				return err
			}
			defer closeService()

			view := usecase.NewProductDetailView(service)
			defer view.Close()

			if err := view.Load(cmd.Context(), args[0]); err != nil {
				logger.Debug("product lookup failed", "id", args[0], "error", err)
				return errors.New(view.Snapshot().Error)
			}

			p := view.Snapshot().Product
			out := cmd.OutOrStdout()
			if flagJSON {
				return writeJSON(out, p)
			}

			fmt.Fprintf(out, "ID:           %s\n", p.ID)
			fmt.Fprintf(out, "Name:         %s\n", p.Name)
			fmt.Fprintf(out, "Merchant:     %s\n", p.Merchant)
			fmt.Fprintf(out, "Category:     %s\n", p.Category)
			fmt.Fprintf(out, "Country:      %s\n", p.Country)
			fmt.Fprintf(out, "Value:        %.2f %s\n", p.Value, p.Currency)
			fmt.Fprintf(out, "Price range:  %.2f - %.2f\n", p.MinPrice, p.MaxPrice)
			if len(p.Denominations) > 0 {
				values := make([]string, 0, len(p.Denominations))
				for _, d := range p.Denominations {
					values = append(values, fmt.Sprintf("%.2f", d))
				}
				fmt.Fprintf(out, "Denominations: %s\n", strings.Join(values, ", "))
			}
			if p.ProductCode != "" {
				fmt.Fprintf(out, "Product code: %s\n", p.ProductCode)
			}
			fmt.Fprintf(out, "Description:  %s\n", p.Description)
			return nil
		},
	}
}
