package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eloquacloud/eloqua-sdk-go/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the eloquactl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", version.SDKName, version.Version)
	},
}
