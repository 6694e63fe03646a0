package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/lol-rune-draft/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "runedraft",
		Short: "Draft board with rune recommendations",
		Long: `runedraft serves a League of Legends draft board over WebSocket and shows
predicted runes and summoner spells for the focused player once all ten picks
are in.`,
		SilenceUsage: true,
	}
	cli.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.RecommendCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
