package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/aodb/pkg/aodb"
	"github.com/ssargent/aodb/pkg/di"
)

// container holds the dependency injection container set by main via
// SetContainer. nil until SetContainer is called.
var container *di.Container

// SetContainer injects the dependency container built by main.
func SetContainer(c *di.Container) {
	container = c
}

type dbContextKey struct{}

var dataDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aodb",
	Short: "aodb - Embeddable MVCC KV Store",
	Long: `aodb is an embeddable key-value store with multi-version
concurrency control: an on-disk copy-on-write B-tree, addressed by
version, with a single writer and any number of concurrent readers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		db, err := aodb.Open(filepath.Join(dataDir, "data.aodb"), aodb.Options{})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), dbContextKey{}, db))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		db, err := dbFromContext(cmd)
		if err != nil {
			return nil
		}
		return db.Close()
	},
}

// dbFromContext retrieves the *aodb.DB opened by the root command's
// PersistentPreRunE.
func dbFromContext(cmd *cobra.Command) (*aodb.DB, error) {
	db, ok := cmd.Context().Value(dbContextKey{}).(*aodb.DB)
	if !ok {
		return nil, fmt.Errorf("database not found in context")
	}
	return db, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "./data", "Data directory for the store")
}
