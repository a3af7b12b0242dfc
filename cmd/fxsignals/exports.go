package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List archived workbooks",
	RunE:  runExports,
}

func init() {
	rootCmd.AddCommand(exportsCmd)
}

func runExports(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := openArchive(cfg)
	if err != nil {
		return err
	}

	names, err := store.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing exports: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(out, "No exports in %s.\n", archiveLocation(cfg, store))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
