package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/salusapp/salus_backend/cmd/http"
	systemcmd "github.com/salusapp/salus_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "salus",
	Short: "Salus appointment scheduling and lifecycle engine.",
	Long: `Salus is the scheduling backbone for provider-subject bookings.
It resolves provider availability, generates bookable slots, validates
bookings against live conflicts, and drives each appointment through
its lifecycle, emitting an event for every accepted transition.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
