package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/aodb/pkg/aodb"
)

var applyCommit bool

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply <version> <changeset.json>",
	Short: "Apply a JSON changeset (as produced by diff) onto version",
	Long: `Apply reads a changeset file of [{"kind":"modify"|"remove","key":...,"value":...}]
and applies it on top of version, printing the resulting version.

Example:
  aodb diff 10 20 > cs.json
  aodb apply 10 cs.json --commit`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: invalid version %q\n", args[0])
			os.Exit(1)
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Printf("Error reading changeset file: %v\n", err)
			os.Exit(1)
		}

		var ops []diffOpJSON
		if err := json.Unmarshal(data, &ops); err != nil {
			fmt.Printf("Error parsing changeset file: %v\n", err)
			os.Exit(1)
		}

		cs := aodb.NewChangeset()
		for _, op := range ops {
			switch op.Kind {
			case "remove":
				cs.Remove([]byte(op.Key))
			case "modify":
				cs.Modify([]byte(op.Key), []byte(op.Value))
			default:
				fmt.Printf("Error: unknown changeset op kind %q\n", op.Kind)
				os.Exit(1)
			}
		}

		db, err := dbFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		newVersion, err := db.Apply(version, cs)
		if err != nil {
			fmt.Printf("Error applying changeset: %v\n", err)
			os.Exit(1)
		}

		if applyCommit {
			ok, err := db.Commit(newVersion)
			if err != nil {
				fmt.Printf("Error committing: %v\n", err)
				os.Exit(1)
			}
			if !ok {
				fmt.Printf("Commit conflict: new version %d not committed\n", newVersion)
				os.Exit(1)
			}
		}

		fmt.Printf("%d\n", newVersion)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVar(&applyCommit, "commit", false, "Commit the new version as current")
}
