package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeDate string

func init() {
	scrapeCmd.Flags().StringVar(&scrapeDate, "date", "", "Date to scrape as M/D/YYYY or YYYY-MM-DD, defaults to today.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes the menus of every dining hall for a date.",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := service.Engine.RunBatch(cmd.Context(), scrapeDate)
		if err != nil {
			return err
		}

		cmd.Printf("scraped %d items on %s\n", len(result.Placements), result.Date)
		if len(result.Failures) == 0 {
			return nil
		}

		t := newTable()
		t.AppendHeader(table.Row{"Failed Hall", "Error"})
		for _, failure := range result.Failures {
			t.AppendRow(table.Row{failure.DiningHallID, failure.Error})
		}
		t.Render()
		return nil
	},
}
