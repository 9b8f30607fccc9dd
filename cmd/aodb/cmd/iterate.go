package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/aodb/pkg/aodb"
)

var iterateFromKey string

// iterateCmd represents the iterate command
var iterateCmd = &cobra.Command{
	Use:   "iterate <version>",
	Short: "Print every key/value pair in version, in key order",
	Long: `Iterate walks version's records in forward key order and prints
each as "key\tvalue". Pass --from to start at a specific key.

Example:
  aodb iterate 42
  aodb iterate 42 --from m`,
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

		var it *aodb.Iterator
		if iterateFromKey != "" {
			it, err = db.IterateFrom(version, []byte(iterateFromKey))
		} else {
			it, err = db.Iterate(version)
		}
		if err != nil {
			fmt.Printf("Error iterating: %v\n", err)
			os.Exit(1)
		}

		for it.Next() {
			key, value := it.Record()
			fmt.Printf("%s\t%s\n", string(key), string(value))
		}
		if err := it.Err(); err != nil {
			fmt.Printf("Error during iteration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(iterateCmd)
	iterateCmd.Flags().StringVar(&iterateFromKey, "from", "", "Start iteration at this key")
}
