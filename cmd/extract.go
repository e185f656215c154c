package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Download the upstream datasets",
	Long:  "Commands for downloading the curated spreadsheet, sampling RAWG ratings and fetching the sales dataset.",
}

// -- extract sheet --

var extractSheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Download the curated spreadsheet as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sheetURL, _ := cmd.Flags().GetString("url")
		out, _ := cmd.Flags().GetString("out")
		asHTML, _ := cmd.Flags().GetBool("html")
		if sheetURL == "" {
			sheetURL = cfg.Extract.SheetURL
		}
		if out == "" {
			out = cfg.Paths.RawSource
		}
		if sheetURL == "" {
			return eris.New("sheet url is required (GAMEJOIN_EXTRACT_SHEET_URL)")
		}

		return extractSheet(cmd, sheetURL, out, asHTML)
	},
}

func extractSheet(cmd *cobra.Command, sheetURL, out string, asHTML bool) error {
	ex := extract.NewSheetExporter(initFetcher())
	if asHTML {
		rows, err := ex.ScrapeHTMLTable(cmd.Context(), sheetURL, out)
		if err != nil {
			return eris.Wrap(err, "extract sheet")
		}
		zap.L().Info("sheet table scraped", zap.String("out", out), zap.Int("rows", rows))
		return nil
	}

	n, err := ex.Export(cmd.Context(), sheetURL, out)
	if err != nil {
		return eris.Wrap(err, "extract sheet")
	}
	zap.L().Info("sheet exported", zap.String("out", out), zap.Int64("bytes", n))
	return nil
}

// -- extract rawg --

var extractRAWGCmd = &cobra.Command{
	Use:   "rawg",
	Short: "Sample games and ratings from the RAWG API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
			cfg.RAWG.Seed = seed
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.Paths.RawRatings
		}
		return extractRAWG(cmd, out)
	},
}

func extractRAWG(cmd *cobra.Command, out string) error {
	if err := cfg.Validate("rawg"); err != nil {
		return err
	}

	client := extract.NewRAWGClient(initFetcher(), extract.RAWGConfig{
		Key:         cfg.RAWG.Key,
		BaseURL:     cfg.RAWG.BaseURL,
		MaxPages:    cfg.RAWG.MaxPages,
		SamplePages: cfg.RAWG.SamplePages,
		PageSize:    cfg.RAWG.PageSize,
		Seed:        cfg.RAWG.Seed,
		MaxFailures: cfg.RAWG.MaxFailures,
	})

	games, err := client.FetchSample(cmd.Context())
	if err != nil {
		return eris.Wrap(err, "extract rawg")
	}
	if err := extract.WriteRatingsCSV(out, games); err != nil {
		return eris.Wrap(err, "extract rawg")
	}

	zap.L().Info("rawg sample written", zap.String("out", out), zap.Int("games", len(games)))
	return nil
}

// -- extract sales --

var extractSalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Download the sales dataset (CSV, ZIP or XLSX)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		salesURL, _ := cmd.Flags().GetString("url")
		out, _ := cmd.Flags().GetString("out")
		file, _ := cmd.Flags().GetString("file")
		if salesURL == "" {
			salesURL = cfg.Extract.SalesURL
		}
		if out == "" {
			out = cfg.Paths.Sales
		}
		if file == "" {
			file = cfg.Extract.SalesFile
		}
		if salesURL == "" {
			return eris.New("sales url is required (GAMEJOIN_EXTRACT_SALES_URL)")
		}
		return extractSales(cmd, salesURL, file, out)
	},
}

func extractSales(cmd *cobra.Command, salesURL, file, out string) error {
	res, err := extract.NewSalesDownloader(initFetcher(), file).Fetch(cmd.Context(), salesURL, out)
	if err != nil {
		return eris.Wrap(err, "extract sales")
	}

	zap.L().Info("sales dataset ready",
		zap.String("out", res.Path),
		zap.String("format", res.Format),
		zap.Bool("changed", res.Changed),
	)
	return nil
}

func init() {
	extractSheetCmd.Flags().String("url", "", "spreadsheet or published page URL (default from config)")
	extractSheetCmd.Flags().String("out", "", "output CSV path (default paths.raw_source)")
	extractSheetCmd.Flags().Bool("html", false, "scrape the first HTML table instead of the CSV export")

	extractRAWGCmd.Flags().String("out", "", "output CSV path (default paths.raw_ratings)")
	extractRAWGCmd.Flags().Uint64("seed", 0, "fix page and ordering selection (0 = config or random)")

	extractSalesCmd.Flags().String("url", "", "sales dataset URL (default extract.sales_url)")
	extractSalesCmd.Flags().String("out", "", "output CSV path (default paths.sales)")
	extractSalesCmd.Flags().String("file", "", "file to take from a ZIP archive (default extract.sales_file)")

	extractCmd.AddCommand(extractSheetCmd)
	extractCmd.AddCommand(extractRAWGCmd)
	extractCmd.AddCommand(extractSalesCmd)
	rootCmd.AddCommand(extractCmd)
}
