package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "questlog",
	Short: "Questlog demonstrates scoped state propagation with reducer stores",
	Long: `Questlog builds a small provider/consumer node tree, declares a
quest-log reducer store on a provider node, and drives it through a
scripted sequence of actions while consumers watch for changes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Log every resolve, dispatch, and notify operation")
}
