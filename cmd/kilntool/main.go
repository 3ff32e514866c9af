package main

import (
	"context"
	"fmt"
	"kiln-detection-service/internal/platform/obs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "kilntool",
	Short:        "Brick kiln dataset and geometry utilities",
	Long:         `Command line companion to the kiln detection service: tile geometry, proximity search and database setup.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := obs.NewLogger(logLevel)
		if err != nil {
			return err
		}
		obs.SetLogger(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(bboxCmd, nearbyCmd, initDBCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
