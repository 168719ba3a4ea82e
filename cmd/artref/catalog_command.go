package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"artref/internal/catalog"
	"artref/internal/config"
)

type catalogFlags struct {
	input  string
	output string
	sheet  string
}

func (f *catalogFlags) register(cmd *cobra.Command, withOutput bool) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Spreadsheet to read (.ods, .xlsx, .csv, .tsv)")
	if withOutput {
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "JSON file to write")
	}
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet name (defaults to the first sheet)")
}

// options merges explicitly set flags over the configured catalog paths.
func (f *catalogFlags) options(cmd *cobra.Command, cfg *config.Config) (catalog.Options, error) {
	opts := catalog.Options{
		Input:  cfg.Catalog.Input,
		Output: cfg.Catalog.Output,
		Sheet:  cfg.Catalog.Sheet,
	}
	if input, ok, err := pathFlag(cmd, "input", f.input); err != nil {
		return opts, err
	} else if ok {
		opts.Input = input
	}
	if output, ok, err := pathFlag(cmd, "output", f.output); err != nil {
		return opts, err
	} else if ok {
		opts.Output = output
	}
	if cmd.Flags().Changed("sheet") {
		opts.Sheet = f.sheet
	}
	if opts.Output != "" && opts.Input == opts.Output {
		return opts, fmt.Errorf("output %s would overwrite the input", opts.Output)
	}
	return opts, nil
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var flags catalogFlags

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export the artwork spreadsheet as the JSON catalog",
		Long: "Reads every row of the metadata spreadsheet, splits multi-valued columns,\n" +
			"parses years and replaces the JSON catalog. A missing column aborts the\n" +
			"export before anything is written.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}

			result, err := catalog.Export(opts, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d artworks to %s\n", result.Count, result.Output)
			return nil
		},
	}
	flags.register(cmd, true)

	cmd.AddCommand(newCatalogStatsCommand(ctx))
	return cmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  catalogFlags
		asJSON bool
		topN   int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show facet counts for the artwork spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			artworks, _, err := catalog.Load(opts)
			if err != nil {
				return err
			}
			stats := catalog.ComputeStats(artworks)
			if asJSON {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Artworks: %d\n", stats.Artworks)
			fmt.Fprintf(out, "Missing year: %d\n", stats.MissingYear)
			for _, facet := range []struct {
				title  string
				counts []catalog.FacetCount
			}{
				{"Artists", stats.Artists},
				{"Periods", stats.Periods},
				{"Subjects", stats.Subjects},
				{"Techniques", stats.Techniques},
			} {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "%s (%d)\n", facet.title, len(facet.counts))
				if len(facet.counts) == 0 {
					continue
				}
				fmt.Fprintln(out, renderTable([]string{"Value", "Artworks"}, facetRows(facet.counts, topN), []columnAlignment{alignLeft, alignRight}))
			}
			return nil
		},
	}
	flags.register(cmd, false)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&topN, "top", 10, "Rows per facet table (0 shows all)")
	return cmd
}

func facetRows(counts []catalog.FacetCount, limit int) [][]string {
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
	}
	return rows
}
