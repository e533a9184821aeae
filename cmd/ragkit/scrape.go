package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ternarybob/ragkit/internal/app"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]",
	Short: "Load a web page as markdown",
	Long: `Scrape a web page with headless Chrome and convert it to markdown.

With scraper.off_prompt enabled (the default) the page is stored in task memory and
the memory name and namespace are printed for use with "ragkit query --memory --namespace".`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

var scrapeOnPrompt bool

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeOnPrompt, "print", false, "Print the page content instead of storing it in memory")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if scrapeOnPrompt {
		config.Scraper.OffPrompt = false
	}

	logger.Debug().Str("url", args[0]).Bool("off_prompt", config.Scraper.OffPrompt).Msg("Scraping URL")

	return withApp(func(ctx context.Context, application *app.App) error {
		output, err := application.WebScraperTool.Run(ctx, map[string]any{"url": args[0]})
		if err != nil {
			return err
		}
		return printArtifact(cmd.OutOrStdout(), output)
	})
}
