package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grue-if/grue"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of grue",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("grue version %s\n", strings.TrimSpace(grue.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
