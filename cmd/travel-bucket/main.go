package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "travel-bucket",
		Short: "Travel bucket list API",
		Long: `travel-bucket keeps a list of places to visit and whether they were visited.

Configuration is read from TRAVEL_* environment variables (and a .env file
when present), for example:
  TRAVEL_PRIMARY.ENV=local
  TRAVEL_SERVER.PORT=8080
  TRAVEL_SERVER.CORS_ALLOWED_ORIGINS=http://localhost:5173
  TRAVEL_DATABASE.DRIVER=postgres          # or memory
  TRAVEL_DATABASE.HOST=localhost
  TRAVEL_REDIS.ADDRESS=localhost:6379      # optional, shares rate limits`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd())
	return rootCmd
}
