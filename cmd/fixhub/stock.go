package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fixhub/fixhub/internal/cli"
	"github.com/fixhub/fixhub/internal/export"
	"github.com/fixhub/fixhub/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Manage the stock catalog",
		Long:  `List, add, merge, and export branch inventory.`,
	}

	cmd.AddCommand(listStockCmd())
	cmd.AddCommand(addStockCmd())
	cmd.AddCommand(mergeStockCmd())
	cmd.AddCommand(exportStockCmd())

	return cmd
}

func listStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stock items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			items, err := store.ListStock(ctx)
			if err != nil {
				return fmt.Errorf("failed to list stock: %w", err)
			}

			if len(items) == 0 {
				fmt.Println(cli.InfoStyle.Render("No stock items found. Use 'fixhub stock add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Part Name"),
				cli.HeaderStyle.Render("North"),
				cli.HeaderStyle.Render("South"),
				cli.HeaderStyle.Render("Cost"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 30),
				strings.Repeat("-", 6),
				strings.Repeat("-", 6),
				strings.Repeat("-", 8))

			for _, item := range items {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
					item.PartName, item.StockNorth, item.StockSouth, item.CostPrice.StringFixed(2))
			}
			return nil
		},
	}
}

func addStockCmd() *cobra.Command {
	var (
		part  string
		north int
		south int
		cost  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stock item to the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			costPrice := decimal.Zero
			if cost != "" {
				if costPrice, err = decimal.NewFromString(cost); err != nil {
					return fmt.Errorf("invalid cost %q: %w", cost, err)
				}
			}

			item := &model.StockItem{
				PartName:   part,
				StockNorth: north,
				StockSouth: south,
				CostPrice:  costPrice,
			}
			if err := store.InsertStockItem(ctx, item); err != nil {
				return fmt.Errorf("failed to add stock item: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Added %q (north=%d, south=%d)", part, north, south)))
			return nil
		},
	}

	cmd.Flags().StringVar(&part, "part", "", "part name (required)")
	cmd.Flags().IntVar(&north, "north", 0, "initial north branch quantity")
	cmd.Flags().IntVar(&south, "south", 0, "initial south branch quantity")
	cmd.Flags().StringVar(&cost, "cost", "", "unit cost price")
	_ = cmd.MarkFlagRequired("part")

	return cmd
}

func mergeStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge duplicate stock entries",
		Long: `Collapse catalog entries whose part names differ only in case or
surrounding whitespace into a single row, summing both regional quantities.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			merged, err := store.MergeDuplicateStock(ctx)
			if err != nil {
				return fmt.Errorf("failed to merge duplicates: %w", err)
			}

			if merged == 0 {
				fmt.Println(cli.InfoStyle.Render("No duplicate stock entries found."))
				return nil
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Merged %d duplicate entries", merged)))
			return nil
		},
	}
}

func exportStockCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stock catalog to an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			data, err := export.NewService(store, nil).StockXLSX(ctx)
			if err != nil {
				return fmt.Errorf("failed to export stock: %w", err)
			}

			if err := os.WriteFile(out, data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Wrote %s", out)))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "stock.xlsx", "output file path")

	return cmd
}
