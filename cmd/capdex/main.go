// Package main is the entry point for the capdex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capdex",
		Short: "Capdex image caption index server",
		Long:  `Capdex stores images with AI-generated captions and serves similarity search over caption embeddings.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
