package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/review_viewer/pkg/updater"
	"github.com/Dicklesworthstone/review_viewer/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the rv version",
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rv %s\n", version.Version)
			if !check {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			tag, url, err := updater.CheckForUpdates(ctx, nil, updater.LatestReleaseURL, version.Version)
			if err != nil {
				return fmt.Errorf("checking for updates: %w", err)
			}
			if tag == "" {
				fmt.Fprintln(out, "You are running the latest version.")
				return nil
			}
			fmt.Fprintf(out, "New version available: %s (%s)\n", tag, url)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
