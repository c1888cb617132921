package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/interview-coach/internal/model"
	"github.com/timvw/interview-coach/internal/session"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List practice tracks and levels",
	Long: `List the built-in practice tracks. The key can be passed to --field
or --track; any other text is used as a custom role.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range session.Tracks {
			fmt.Printf("%-14s %s\n", t.Key, t.Label)
		}
		fmt.Println()
		fmt.Print("levels:")
		for _, l := range model.Levels {
			fmt.Printf(" %s", l)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(tracksCmd)
}
