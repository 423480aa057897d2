package cmd

import (
	"strings"
	"umddining-backend/lib/textutil"
	"umddining-backend/services/dining/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches stored foods by name.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		results, err := service.Store.Search(cmd.Context(), query, 50)
		if err != nil {
			return err
		}
		textutil.SortBySimilarity(results, query, func(r store.SearchResult) string {
			return r.Name
		})

		t := newTable()
		t.AppendHeader(table.Row{"RecNum", "Name", "Nutrition"})
		for _, r := range results {
			fetched := "no"
			if r.NutritionFetched {
				fetched = "yes"
			}
			t.AppendRow(table.Row{r.RecNum, r.Name, fetched})
		}
		t.Render()
		return nil
	},
}
