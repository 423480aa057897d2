package cmd

import (
	"fmt"
	"os"
	"umddining-backend/lib/configutil"
	"umddining-backend/lib/serviceutil"
	"umddining-backend/lib/telemetry"
	"umddining-backend/services/dining"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

var service dining.Service

var rootCmd = &cobra.Command{
	Use:   "dining-cli",
	Short: "dining-cli scrapes and queries UMD dining hall menus.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		cfg, err := configutil.ReadConfigWithDefaults(configPath, dining.DefaultConfig)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if dbPath != "" {
			cfg.Database.File = dbPath
			cfg.Database.Url = ""
		}

		service, err = dining.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open dining service: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return service.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the config file.")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a local database, overrides the config.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging.")
}

func Execute() {
	if err := rootCmd.ExecuteContext(serviceutil.SignalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
