package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"litreview-ai/internal/storage"
)

func (a *app) newFolderCmd() *cobra.Command {
	folderCmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List folders with their record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := a.store.ListFolders(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, folders, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tNAME\tRECORDS\tUPDATED")
				for _, f := range folders {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", f.ID, f.Name, f.RecordCount, f.UpdatedAt.Format("2006-01-02 15:04"))
				}
			})
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder, or return the existing one with that name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.store.CreateFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printFolder(cmd, f)
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := a.store.RenameFolder(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return a.printFolder(cmd, f)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a folder; its records move to the default folder if they have no other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete folder %d", id)); err != nil {
				return err
			}
			if err := a.store.DeleteFolder(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %d\n", id)
			return nil
		},
	}

	var into string
	mergeCmd := &cobra.Command{
		Use:   "merge <id> <id>... --into <name>",
		Short: "Merge folders into one folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Merge %d folders into %q", len(ids), into)); err != nil {
				return err
			}
			f, err := a.store.MergeFolders(cmd.Context(), ids, into)
			if err != nil {
				return err
			}
			return a.printFolder(cmd, f)
		},
	}
	mergeCmd.Flags().StringVar(&into, "into", "", "name of the target folder (created if missing)")
	_ = mergeCmd.MarkFlagRequired("into")

	folderCmd.AddCommand(listCmd, createCmd, renameCmd, deleteCmd, mergeCmd)
	return folderCmd
}

func (a *app) printFolder(cmd *cobra.Command, f storage.Folder) error {
	return render(cmd.OutOrStdout(), a.output, f, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tNAME")
		fmt.Fprintf(tw, "%d\t%s\n", f.ID, f.Name)
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
