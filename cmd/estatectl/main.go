package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	marketplacecli "estate-market/services/marketplace/cli"
	mediacli "estate-market/services/media/cli"

	"github.com/spf13/cobra"
)

// rootCmd is the estatectl entry point
var rootCmd = &cobra.Command{
	Use:   "estatectl",
	Short: "Operator tooling for the estate marketplace",
	Long: `estatectl runs one-off maintenance against the marketplace and media stores.

Available commands:
  seed           - Load demo categories, consultants and posters
  create-admin   - Create an admin or superadmin account
  sweep-uploads  - Expire idle upload sessions

Connection settings are read from the environment or .env, as for the services.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(marketplacecli.Commands()...)
	rootCmd.AddCommand(mediacli.Commands()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
