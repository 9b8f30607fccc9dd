package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var delCommit bool

// delCmd represents the del command
var delCmd = &cobra.Command{
	Use:   "del <version> <key>",
	Short: "Remove a key, based on version",
	Long: `Del removes key from version and prints the new version.
The removal is not visible to other readers until it is committed.

Example:
  aodb del 0 mykey --commit`,
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

		newVersion, err := db.Del(version, key)
		if err != nil {
			fmt.Printf("Error deleting key: %v\n", err)
			os.Exit(1)
		}

		if delCommit {
			ok, err := db.Commit(newVersion)
			if err != nil {
				fmt.Printf("Error committing: %v\n", err)
				os.Exit(1)
			}
			if !ok {
				fmt.Printf("Commit conflict: version %d is stale, new version %d not committed\n", version, newVersion)
				os.Exit(1)
			}
		}

		fmt.Printf("%d\n", newVersion)
	},
}

func init() {
	rootCmd.AddCommand(delCmd)
	delCmd.Flags().BoolVar(&delCommit, "commit", false, "Commit the new version as current")
}
