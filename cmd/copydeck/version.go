package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/copydeck"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of copydeck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "copydeck version %s\n", strings.TrimSpace(copydeck.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
