package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <version> <key>",
	Short: "Get the value for a key at a version",
	Long: `Get the value stored under key as of version from the aodb store.

Example:
  aodb get 0 mykey`,
	Args: cobra.ExactArgs(2),
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

		value, found, err := db.Get(version, key)
		if err != nil {
			fmt.Printf("Error getting value: %v\n", err)
			os.Exit(1)
		}
		if !found {
			fmt.Printf("key not found\n")
			os.Exit(1)
		}

		fmt.Printf("%s\n", string(value))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
