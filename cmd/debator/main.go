package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "debator",
		Short: "Backend for the GOAT debate game",
		Long:  "Serves the turn-based GOAT debate API: AI dialogue in Nigerian Pidgin via Gemini (with Pollinations fallback), optional YarnGPT speech audio, and in-memory session scoring.",
	}

	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
