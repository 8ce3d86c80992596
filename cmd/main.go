package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "options-trading-backend",
	Short: "A CLI for managing the options trading backend services",
	Long:  `Options trading backend is a set of services providing a local market data store, options analytics and fleet health monitoring.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
