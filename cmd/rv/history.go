package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show journaled mutations, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal := a.openJournal()
			if journal == nil {
				return errors.New("journal is disabled")
			}
			defer journal.Close()

			var (
				entries []model.Mutation
				err     error
			)
			if len(args) == 1 {
				entries, err = journal.History(args[0])
			} else {
				entries, err = journal.Recent(limit)
			}
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of entries to show")
	return cmd
}

func writeHistory(w io.Writer, entries []model.Mutation) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No journal entries.")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WHEN", "ACTION", "REVIEW", "MODE", "RESULT")
	for _, e := range entries {
		mode := "public"
		if e.Private {
			mode = "private"
		}
		result := "ok"
		if !e.OK {
			result = truncate(e.Error, 50)
		}
		t.Row(e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action, e.ReviewID, mode, result)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
