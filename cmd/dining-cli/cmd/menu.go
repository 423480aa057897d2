package cmd

import (
	"fmt"
	"strings"
	"umddining-backend/lib/timezone"
	"umddining-backend/services/dining/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var menuFilter store.MenuFilter

func init() {
	menuCmd.Flags().StringVar(&menuFilter.DiningHallID, "hall", "", "Dining hall id.")
	menuCmd.Flags().StringVar(&menuFilter.Date, "date", "", "Date as M/D/YYYY or YYYY-MM-DD, defaults to today.")
	menuCmd.Flags().StringVar(&menuFilter.MealPeriod, "meal", "", "Meal period, ex. Lunch.")
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Prints the stored menu of a dining hall.",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := menuFilter
		if filter.Date == "" {
			filter.Date = timezone.Today()
		}
		date, err := timezone.NormalizeSiteDate(filter.Date)
		if err != nil {
			return err
		}
		filter.Date = date

		items, err := service.Store.Menu(cmd.Context(), filter)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Hall", "Meal", "Station", "Name", "RecNum", "Tags", "Calories"})
		for _, item := range items {
			calories := ""
			if item.NutritionFetched {
				calories = item.Nutrition["Calories"]
			}
			t.AppendRow(table.Row{
				item.DiningHallID,
				item.MealPeriod,
				item.Station,
				item.Name,
				item.RecNum,
				strings.Join(item.DietaryIcons, ", "),
				calories,
			})
		}
		t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d items", len(items))})
		t.Render()
		return nil
	},
}
