package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/review_viewer/pkg/export"
	"github.com/Dicklesworthstone/review_viewer/pkg/model"
	"github.com/Dicklesworthstone/review_viewer/pkg/review"
)

func newListCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print reviews without the interactive table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printList(cmd.Context(), cmd.OutOrStdout(), a.cfg.Private, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml or md")
	return cmd
}

func (a *app) printList(ctx context.Context, w io.Writer, private bool, format string) error {
	reviews, err := a.client.List(ctx, private, a.token)
	if err != nil {
		return err
	}
	switch format {
	case "table", "":
		return writeTable(w, reviews)
	case export.FormatJSON, export.FormatYAML, export.FormatMarkdown:
		return export.Write(w, format, reviews)
	default:
		return fmt.Errorf("unsupported list format %q", format)
	}
}

// writeTable prints reviews as a bordered plain-text table
func writeTable(w io.Writer, reviews []model.Review) error {
	if len(reviews) == 0 {
		_, err := fmt.Fprintln(w, "No reviews.")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "SHOW", "AUTHOR", "RATING", "REVIEW")
	for _, r := range reviews {
		rating := strconv.Itoa(r.Rating)
		if label := model.RatingLabel(r.Rating); label != "" {
			rating += " " + label
		}
		t.Row(r.ID, r.Show, r.Author, rating, truncate(r.Review, 60))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

type reviewFlags struct {
	show   string
	author string
	rating int
	text   string
}

func (f *reviewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.show, "show", "", "show title")
	cmd.Flags().StringVar(&f.author, "author", "", "review author")
	cmd.Flags().IntVar(&f.rating, "rating", 0, "rating from 0 to 5")
	cmd.Flags().StringVar(&f.text, "review", "", "review text")
}

// apply overlays the flags the user set onto in
func (f *reviewFlags) apply(cmd *cobra.Command, in model.ReviewInput) model.ReviewInput {
	if cmd.Flags().Changed("show") {
		in.Show = f.show
	}
	if cmd.Flags().Changed("author") {
		in.Author = f.author
	}
	if cmd.Flags().Changed("rating") {
		in.Rating = f.rating
	}
	if cmd.Flags().Changed("review") {
		in.Review = f.text
	}
	return in
}

func newAddCmd(a *app) *cobra.Command {
	var f reviewFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := f.apply(cmd, model.ReviewInput{})
			if err := in.Validate(); err != nil {
				return err
			}

			journal := a.openJournal()
			defer journal.Close()

			created, err := a.client.Create(cmd.Context(), in, a.cfg.Private, a.token)
			journal.Record(model.ActionCreate, created.ID, a.cfg.Private, err)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created review %s\n", created.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var f reviewFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			current, err := a.client.Get(cmd.Context(), id, a.cfg.Private, a.token)
			if err != nil {
				return err
			}
			in := f.apply(cmd, current.Input())
			if err := in.Validate(); err != nil {
				return err
			}

			journal := a.openJournal()
			defer journal.Close()

			_, err = a.client.Update(cmd.Context(), id, in, a.cfg.Private, a.token)
			journal.Record(model.ActionUpdate, id, a.cfg.Private, err)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated review %s\n", id)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete reviews",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal := a.openJournal()
			defer journal.Close()

			res := review.DeleteAll(cmd.Context(), a.client, args, a.cfg.Private, a.token, a.cfg.DeleteConcurrency)
			journal.RecordDeletes(res, a.cfg.Private)

			out := cmd.OutOrStdout()
			for _, id := range res.Deleted {
				fmt.Fprintf(out, "Deleted %s\n", id)
			}
			if err := res.Err(); err != nil {
				return fmt.Errorf("%d of %d deletes failed: %w", len(res.Failed), len(res.Deleted)+len(res.Failed), err)
			}
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reviews or a rating chart to a file",
		Long:  "Export writes the current reviews as json, yaml, md or xlsx, or the rating histogram as svg or png. The format defaults to the output file extension.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = export.FormatFromPath(output)
			}
			if format == "" {
				return errors.New("cannot infer format from output path; pass --format")
			}

			reviews, err := a.client.List(cmd.Context(), a.cfg.Private, a.token)
			if err != nil {
				return err
			}

			if output == "-" {
				return export.Write(cmd.OutOrStdout(), format, reviews)
			}
			if err := export.SaveFile(output, format, reviews); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reviews to %s\n", len(reviews), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml, md, xlsx, svg or png")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
