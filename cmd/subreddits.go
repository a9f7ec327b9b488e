package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kova98/painhunt.api/sources"
)

var subredditsCmd = &cobra.Command{
	Use:   "subreddits",
	Short: "List suggested subreddits",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, s := range sources.SuggestedSubreddits {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
	},
}

func init() {
	rootCmd.AddCommand(subredditsCmd)
}
