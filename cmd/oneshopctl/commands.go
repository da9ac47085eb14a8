package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/sources/catalogfile"
	"github.com/MrSnakeDoc/oneshop/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oneshopctl",
		Short:         "Inspect oneshop catalog files",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newValidateCmd(), newFlattenCmd(), newSearchCmd())
	return root
}

// =============================================================================
// VALIDATE
// =============================================================================

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a catalog file loads and every link is well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, digest, err := loadCatalog(args[0])
			if err != nil {
				return err
			}

			links := 0
			for _, c := range categories {
				links += len(domain.LinksOf(c))
			}
			flat := domain.Flatten(categories)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ %s is valid\n", args[0])
			fmt.Fprintf(out, "   categories: %d\n", len(categories))
			fmt.Fprintf(out, "   links:      %d (%d unique brands)\n", links, len(flat))
			fmt.Fprintf(out, "   digest:     %s\n", digest)
			return nil
		},
	}
}

// =============================================================================
// FLATTEN
// =============================================================================

func newFlattenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flatten <file>",
		Short: "Print the deduplicated brand list as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, _, err := loadCatalog(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), domain.Flatten(categories))
		},
	}
}

// =============================================================================
// SEARCH
// =============================================================================

func newSearchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Search brands and categories like the home screen does",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, _, err := loadCatalog(args[0])
			if err != nil {
				return err
			}

			results := domain.Search(args[1], domain.Flatten(categories))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			return writeTable(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func loadCatalog(path string) ([]domain.Category, string, error) {
	file, digest, err := catalogfile.NewLoader(path).Load()
	if err != nil {
		return nil, "", err
	}
	categories, err := catalogfile.NewMapper().MapCatalog(file)
	if err != nil {
		return nil, "", err
	}
	return categories, digest, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, results []domain.FlattenedEntry) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no matches")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BRAND\tCATEGORY\tURL")
	for _, e := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.BrandName, e.CategoryName, e.URL)
	}
	return tw.Flush()
}
