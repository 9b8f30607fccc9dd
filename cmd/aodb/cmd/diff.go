package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/aodb/pkg/aodb"
)

// diffOpJSON mirrors pkg/api's ChangesetOpDTO so `aodb diff` output can be
// piped straight into `aodb apply`.
type diffOpJSON struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Print the changeset that turns version a into version b",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a, b, err := parseVersionPair(args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		db, err := dbFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ops, err := db.Diff(a, b)
		if err != nil {
			fmt.Printf("Error diffing: %v\n", err)
			os.Exit(1)
		}

		out := make([]diffOpJSON, 0, len(ops))
		for _, op := range ops {
			dto := diffOpJSON{Key: string(op.Key)}
			if op.Kind == aodb.OpRemove {
				dto.Kind = "remove"
			} else {
				dto.Kind = "modify"
				dto.Value = string(op.Value)
			}
			out = append(out, dto)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Printf("Error encoding changeset: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
