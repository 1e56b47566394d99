package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/actvis"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of actvis",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "actvis version %s\n", strings.TrimSpace(actvis.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
