package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/giftshelf/backend/internal/domain"
	"github.com/giftshelf/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	var (
		search    string
		category  string
		sortBy    string
		sortOrder string
		page      int
		limit     int
		mode      string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products with search, category filter, sorting and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeService, err := newCatalogService(mode)
			if err != nil {
				return err
			}
			defer closeService()

			view := usecase.NewProductsView(service)
			defer view.Close()

			// Only flags the user set take part in the update, like a single UI change.
			flags := cmd.Flags()
			var update domain.FilterUpdate
			if flags.Changed("search") {
				update.Search = &search
			}
			if flags.Changed("category") {
				update.Category = &category
			}
			if flags.Changed("sort-by") {
				update.SortBy = &sortBy
			}
			if flags.Changed("sort-order") {
				update.SortOrder = &sortOrder
			}
			if flags.Changed("page") {
				update.Page = &page
			}
			if flags.Changed("limit") {
				update.Limit = &limit
			}

			if err := view.UpdateFilters(cmd.Context(), update); err != nil {
				logger.Debug("products request failed", "error", err)
				return errors.New(view.Snapshot().Error)
			}

			state := view.Snapshot()
			out := cmd.OutOrStdout()
			if flagJSON {
				return writeJSON(out, domain.ProductPage{Products: state.Products, Pagination: *state.Pagination})
			}
			printProducts(out, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Free-text search term")
	cmd.Flags().StringVar(&category, "category", "", "Exact category to filter by")
	cmd.Flags().StringVar(&sortBy, "sort-by", domain.SortByName, "Sort key (name, merchant, value, category)")
	cmd.Flags().StringVar(&sortOrder, "sort-order", domain.SortOrderAsc, "Sort order (asc, desc)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultLimit, "Products per page")
	cmd.Flags().StringVar(&mode, "mode", "", "Query strategy (server, client); defaults to the configured mode")

	return cmd
}

func printProducts(out io.Writer, state usecase.ProductsState) {
	if len(state.Products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return
	}

	fmt.Fprintf(out, "%-26s  %-36s  %-20s  %-16s  %10s\n", "ID", "NAME", "MERCHANT", "CATEGORY", "VALUE")
	fmt.Fprintf(out, "%-26s  %-36s  %-20s  %-16s  %10s\n", "--", "----", "--------", "--------", "-----")
	for _, p := range state.Products {
		fmt.Fprintf(out, "%-26s  %-36s  %-20s  %-16s  %10.2f\n",
			truncate(p.ID, 26), truncate(p.Name, 36), truncate(p.Merchant, 20), truncate(p.Category, 16), p.Value)
	}

	if state.Pagination != nil {
		fmt.Fprintf(out, "\nPage %d of %d (%d products)\n",
			state.Pagination.CurrentPage, state.Pagination.TotalPages, state.Pagination.TotalItems)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
