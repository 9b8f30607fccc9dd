package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// basedOnCmd represents the based-on command
var basedOnCmd = &cobra.Command{
	Use:   "based-on <a> <b>",
	Short: "Report whether version a descends from version b",
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

		ok, err := db.IsBasedOn(a, b)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%t\n", ok)
	},
}

// commonAncestorCmd represents the common-ancestor command
var commonAncestorCmd = &cobra.Command{
	Use:   "common-ancestor <a> <b>",
	Short: "Print the most recent version common to a and b's history",
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

		ancestor, err := db.CommonAncestor(a, b)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%d\n", ancestor)
	},
}

func parseVersionPair(args []string) (uint64, uint64, error) {
	a, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid version %q", args[0])
	}
	b, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid version %q", args[1])
	}
	return a, b, nil
}

func init() {
	rootCmd.AddCommand(basedOnCmd)
	rootCmd.AddCommand(commonAncestorCmd)
}
