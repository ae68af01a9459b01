package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"litreview-ai/internal/storage"
)

// recordPage is the list output: one page plus the unpaginated total.
type recordPage struct {
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Records []storage.Record `json:"records"`
}

// recordDetail is a record with the folders it belongs to.
type recordDetail struct {
	storage.Record
	Folders []storage.Folder `json:"folders"`
}

func (a *app) newRecordCmd() *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Inspect and organize records",
	}

	var (
		folderID   int64
		recordType string
		search     string
		sortKey    string
		ascending  bool
		limit      int
		offset     int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := storage.ParseSortKey(sortKey)
			if !ok {
				return fmt.Errorf("invalid sort key %q: must be updatedAt, title, publicationDate or journal", sortKey)
			}
			filter := storage.ListFilter{
				RecordType: storage.RecordType(recordType),
				Search:     search,
				SortKey:    key,
				Ascending:  ascending,
				Limit:      limit,
				Offset:     offset,
			}
			switch filter.RecordType {
			case "", storage.RecordTypeLiterature, storage.RecordTypeFolderSummary:
			default:
				return fmt.Errorf("invalid record type %q: must be literature or folderSummary", recordType)
			}
			if cmd.Flags().Changed("folder") {
				filter.FolderID = &folderID
			}

			records, err := a.store.ListRecords(cmd.Context(), filter)
			if err != nil {
				return err
			}
			total, err := a.store.CountRecords(cmd.Context(), filter)
			if err != nil {
				return err
			}

			page := recordPage{Total: total, Offset: offset, Records: records}
			return render(cmd.OutOrStdout(), a.output, page, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tTYPE\tITEM\tTITLE\tJOURNAL\tDATE\tUPDATED")
				for _, r := range records {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
						r.ID, r.RecordType, r.ZoteroItemID, truncate(r.Title, 50), truncate(r.Journal, 30),
						r.PublicationDate, r.UpdatedAt.Format("2006-01-02 15:04"))
				}
				if len(records) < total {
					fmt.Fprintf(tw, "\nShowing %d-%d of %d\n", offset+1, offset+len(records), total)
				}
			})
		},
	}
	listCmd.Flags().Int64Var(&folderID, "folder", 0, "only records in this folder")
	listCmd.Flags().StringVar(&recordType, "type", "", "only records of this type (literature or folderSummary)")
	listCmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text search")
	listCmd.Flags().StringVar(&sortKey, "sort", string(storage.SortUpdatedAt), "sort key: updatedAt, title, publicationDate or journal")
	listCmd.Flags().BoolVar(&ascending, "asc", false, "sort ascending")
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records (0 = all)")
	listCmd.Flags().IntVar(&offset, "offset", 0, "number of records to skip")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rec, err := a.store.GetRecord(cmd.Context(), id)
			if err != nil {
				return err
			}
			folders, err := a.store.RecordFolders(cmd.Context(), id)
			if err != nil {
				return err
			}
			detail := recordDetail{Record: rec, Folders: folders}
			if a.output != formatTable {
				return render(cmd.OutOrStdout(), a.output, detail, nil)
			}
			writeRecord(cmd.OutOrStdout(), detail)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete %d record(s)", len(ids))); err != nil {
				return err
			}
			n, err := a.store.DeleteRecords(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s)\n", n)
			return nil
		},
	}

	assignCmd := &cobra.Command{
		Use:   "assign <folder-id> <record-id>...",
		Short: "Add records to a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.store.AssignFolder(cmd.Context(), ids[1:], ids[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %d record(s) to folder %d\n", len(ids)-1, ids[0])
			return nil
		},
	}

	unassignCmd := &cobra.Command{
		Use:   "unassign <folder-id> <record-id>...",
		Short: "Remove records from a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.store.RemoveFromFolder(cmd.Context(), ids[1:], ids[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s) from folder %d\n", len(ids)-1, ids[0])
			return nil
		},
	}

	var setFrom string
	rawCmd := &cobra.Command{
		Use:   "raw <id>",
		Short: "Print a record's raw AI response, or replace it with --set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if setFrom == "" {
				rec, err := a.store.GetRecord(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), rec.RawAIResponse)
				return nil
			}

			text, err := readInput(cmd.InOrStdin(), setFrom)
			if err != nil {
				return err
			}
			if _, err := a.store.UpdateRawResponse(cmd.Context(), id, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated raw response of record %d\n", id)
			return nil
		},
	}
	rawCmd.Flags().StringVar(&setFrom, "set", "", "file to read the new raw response from (- for stdin)")

	recordCmd.AddCommand(listCmd, showCmd, deleteCmd, assignCmd, unassignCmd, rawCmd)
	return recordCmd
}

func readInput(stdin io.Reader, from string) (string, error) {
	var data []byte
	var err error
	if from == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(from)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", from, err)
	}
	return string(data), nil
}

// writeRecord prints a record as labelled sections.
func writeRecord(w io.Writer, d recordDetail) {
	r := d.Record
	names := make([]string, 0, len(d.Folders))
	for _, f := range d.Folders {
		names = append(names, f.Name)
	}

	fmt.Fprintf(w, "#%d %s\n", r.ID, r.Title)
	field := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(w, "%s: %s\n", label, value)
		}
	}
	field("Type", string(r.RecordType))
	if r.ZoteroItemID > 0 {
		field("Item", fmt.Sprint(r.ZoteroItemID))
	}
	field("Authors", r.Authors)
	field("Journal", r.Journal)
	field("Date", r.PublicationDate)
	field("Folders", strings.Join(names, ", "))
	field("Model", strings.TrimSpace(r.AIProvider+" "+r.AIModel))
	field("Updated", r.UpdatedAt.Format("2006-01-02 15:04"))

	section := func(label, body string) {
		if body = strings.TrimSpace(body); body != "" {
			fmt.Fprintf(w, "\n%s\n%s\n", label, body)
		}
	}
	section("Abstract", r.Abstract)
	section("Background", r.Background)
	section("Methods", r.Methods)
	section("Review", r.Review)
	section("Conclusions", r.Conclusions)
	if len(r.KeyFindings) > 0 {
		section("Key findings", "- "+strings.Join(r.KeyFindings, "\n- "))
	}
	if len(r.ClassificationTags) > 0 {
		section("Tags", strings.Join(r.ClassificationTags, ", "))
	}
	section("Annotations", r.AnnotationNotes)
	for k, v := range sortedExtras(r.ExtraFields) {
		section(k, v)
	}
	if len(r.SourceRecordIDs) > 0 {
		section("Sources", fmt.Sprint(r.SourceRecordIDs))
	}
}
