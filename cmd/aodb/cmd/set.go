package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var setCommit bool

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <version> <key> <value>",
	Short: "Set a key to a value, based on version",
	Long: `Set writes key=value on top of version and prints the new version.
The write is not visible to other readers until it is committed.

Example:
  aodb set 0 mykey myvalue
  aodb set 0 mykey myvalue --commit`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: invalid version %q\n", args[0])
			os.Exit(1)
		}
		key := []byte(args[1])
		value := []byte(args[2])

		db, err := dbFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		newVersion, err := db.Set(version, key, value)
		if err != nil {
			fmt.Printf("Error setting key: %v\n", err)
			os.Exit(1)
		}

		if setCommit {
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
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().BoolVar(&setCommit, "commit", false, "Commit the new version as current")
}
