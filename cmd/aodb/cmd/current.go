package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// currentCmd prints the version currently visible to new readers.
var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the current committed version",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := dbFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%d\n", db.Current())
	},
}

func init() {
	rootCmd.AddCommand(currentCmd)
}
