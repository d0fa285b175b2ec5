package commands

import (
	"fmt"

	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/qepting91/reddit-harvester/internal/export"
	"github.com/qepting91/reddit-harvester/internal/extract"
	"github.com/spf13/cobra"
)

var (
	extractURL    string
	extractFields []string
)

func init() {
	extractCmd.Flags().StringVar(&extractURL, "url", config.DefaultExtractURL, "The page to scrape.")
	extractCmd.Flags().StringSliceVar(&extractFields, "fields", extract.DefaultFields, "Fields to extract from the page.")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [--url <page>] [--fields Festival,Year]",
	Short: "Scrapes a page to markdown and extracts structured fields with an LLM into json and xlsx.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newPrompter(cmd).String("url", fmt.Sprintf("Enter the page to scrape (default is %s): ", extractURL), &extractURL); err != nil {
			return err
		}

		scraper, err := extract.NewFirecrawl(cfg.FirecrawlURL, cfg.FirecrawlAPIKey)
		if err != nil {
			return err
		}
		llm, err := extract.NewGroq(cfg.GroqURL, cfg.GroqAPIKey, cfg.GroqModel)
		if err != nil {
			return err
		}

		p := &extract.Pipeline{
			Scraper:   scraper,
			Extractor: &extract.Extractor{LLM: llm, Logger: logger.With("component", "extract")},
			Fields:    extractFields,
			Workbook:  export.Workbook{Dir: cfg.OutputDir, Logger: logger},
			Logger:    logger.With("component", "extract"),
		}
		res, err := p.Run(cmd.Context(), extractURL)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Raw data saved to %s\n", res.RawPath)
		fmt.Fprintf(out, "Formatted data saved to %s\n", res.JSONPath)
		fmt.Fprintf(out, "Data saved to %s\n", res.ExcelPath)
		return nil
	},
}
