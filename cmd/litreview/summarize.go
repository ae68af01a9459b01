package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <folder-id>",
		Short: "Write a summary of the literature records in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.newReviewService()
			if err != nil {
				return err
			}
			rec, err := svc.SummarizeFolder(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.output != formatTable {
				return render(cmd.OutOrStdout(), a.output, rec, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created record %d: %s (%d sources)\n\n%s\n",
				rec.ID, rec.Title, len(rec.SourceRecordIDs), rec.Review)
			return nil
		},
	}
}
