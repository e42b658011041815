package cmd

import (
	"fmt"
	"os"

	"github.com/cedarkv/cedar/cmd/kv"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "cedar",
		Short: "in-memory key-value store with TTL and prefix search",
		Long: fmt.Sprintf(`cedar (v%s)

A concurrent, in-memory key-value store library written in Go, with
per-entry TTL expiry, background reclamation and ordered prefix search.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cedar",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cedar v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
