package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// commitCmd represents the commit command
var commitCmd = &cobra.Command{
	Use:   "commit <version>",
	Short: "Compare-and-set the current version to version",
	Long: `Commit attempts to make version the current version using a
compare-and-set against the version it was based on. It fails if another
writer has committed in the meantime.

Example:
  aodb commit 42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: invalid version %q\n", args[0])
			os.Exit(1)
		}

		db, err := dbFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ok, err := db.Commit(version)
		if err != nil {
			fmt.Printf("Error committing: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Printf("conflict: version %d was not committed\n", version)
			os.Exit(1)
		}

		fmt.Printf("committed %d\n", version)
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
}
