package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// hasCmd represents the has command
var hasCmd = &cobra.Command{
	Use:   "has <version> <key>",
	Short: "Report whether a key exists at a version",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: invalid version %q\n", args[0])
			os.Exit(1)
		}
		key := []byte(args[1])

		db, err := dbFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		found, err := db.Has(version, key)
		if err != nil {
			fmt.Printf("Error checking key: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%t\n", found)
	},
}

func init() {
	rootCmd.AddCommand(hasCmd)
}
