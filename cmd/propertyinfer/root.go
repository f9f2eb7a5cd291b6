package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"attrinfer/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "propertyinfer",
	Short: "Multi-source attribute inference for real-estate parcels",
	Long: "propertyinfer infers phone, owner_name, lot_size_acres, and list_price\n" +
		"for a parcel by combining MLS listings, appraisal-district records, and\n" +
		"county tax rolls, showing the auditable score trail behind each guess.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logging.Init(parseLogLevel(logLevel), logFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "text or json")

	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
