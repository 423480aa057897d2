package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hallsCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Writes the configured dining halls to the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// halls are also seeded whenever the service is opened
		err := service.Store.SeedHalls(cmd.Context(), service.Engine.Halls())
		if err != nil {
			return err
		}
		cmd.Printf("seeded %d dining halls\n", len(service.Engine.Halls()))
		return nil
	},
}

var hallsCmd = &cobra.Command{
	Use:   "halls",
	Short: "Prints the dining halls in the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := service.Store.DiningHalls(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name", "Location"})
		for _, hall := range rows {
			t.AppendRow(table.Row{hall.ID, hall.Name, hall.Location})
		}
		t.Render()
		return nil
	},
}
