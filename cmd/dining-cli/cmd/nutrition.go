package cmd

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(nutritionCmd)
}

var nutritionCmd = &cobra.Command{
	Use:   "nutrition <rec_num>",
	Short: "Prints the nutrition of a food, fetching it if it isn't stored yet.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		food, err := service.Engine.GetNutrition(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		cmd.Printf("%s (%s)\n", food.Name, food.RecNum)

		names := make([]string, 0, len(food.Nutrition))
		for name := range food.Nutrition {
			names = append(names, name)
		}
		slices.Sort(names)

		t := newTable()
		t.AppendHeader(table.Row{"Nutrient", "Value"})
		for _, name := range names {
			t.AppendRow(table.Row{name, food.Nutrition[name]})
		}
		t.Render()

		if food.Ingredients != "" {
			cmd.Printf("Ingredients: %s\n", food.Ingredients)
		}
		if food.Allergens != "" {
			cmd.Printf("Allergens: %s\n", food.Allergens)
		}
		return nil
	},
}
