package main

import (
	"os"

	"github.com/ismyyear/lockin/cmd/do/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "do",
		Short:         "Maintenance tools for the lockin API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.StreaksCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
