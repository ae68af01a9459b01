package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"litreview-ai/internal/contextutil"
	"litreview-ai/internal/service"
	"litreview-ai/internal/source"
)

// extractOutcome is one line of the extraction report.
type extractOutcome struct {
	Path     string `json:"path"`
	ItemID   int64  `json:"itemID,omitempty"`
	RecordID int64  `json:"recordID,omitempty"`
	Title    string `json:"title,omitempty"`
	Enriched bool   `json:"enriched"`
	Skipped  string `json:"retrievalSkipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (a *app) newExtractCmd() *cobra.Command {
	var (
		dir        string
		pattern    string
		folderID   int64
		folderName string
	)
	cmd := &cobra.Command{
		Use:   "extract [item-file...]",
		Short: "Create or update literature records from exported item files",
		Long: `extract sends each item (JSON or YAML) to the configured model and stores
the structured result. Items can be given as files or found under --dir using
the library pattern. Existing records for the same item are updated in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" && len(args) == 0 {
				return fmt.Errorf("give item files or --dir")
			}
			if cmd.Flags().Changed("folder-id") && folderName != "" {
				return fmt.Errorf("use either --folder-id or --folder, not both")
			}
			ctx := cmd.Context()
			logger := contextutil.LoggerFromContext(ctx)

			paths := append([]string(nil), args...)
			if dir != "" {
				if pattern == "" {
					pattern = a.cfg.LibraryPattern
				}
				lib, err := source.NewLibrary(dir, pattern)
				if err != nil {
					return err
				}
				files, err := lib.Scan(ctx)
				if err != nil {
					return err
				}
				for _, f := range files {
					paths = append(paths, f.AbsPath)
				}
				logger.Info("Library scanned", "dir", dir, "files", len(files))
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No item files found")
				return nil
			}

			svc, err := a.newReviewService()
			if err != nil {
				return err
			}

			req := service.ExtractRequest{FolderName: folderName}
			if cmd.Flags().Changed("folder-id") {
				req.FolderID = &folderID
			}

			progress := newReporter(cmd.ErrOrStderr())
			progress.Start(len(paths))
			outcomes := make([]extractOutcome, 0, len(paths))
			var failed int
			var stopErr error
			for i, path := range paths {
				if err := ctx.Err(); err != nil {
					stopErr = err
					break
				}
				outcome := extractOutcome{Path: path}
				progress.Update(i, filepath.Base(path))

				item, err := source.LoadItem(path)
				if err == nil {
					outcome.ItemID = item.ID
					req.Item = item
					var res service.ExtractResult
					res, err = svc.Extract(ctx, req)
					if err == nil {
						outcome.RecordID = res.Record.ID
						outcome.Title = res.Record.Title
						outcome.Enriched = res.Enriched
						outcome.Skipped = string(res.Skipped)
					}
				}
				if err != nil {
					failed++
					outcome.Error = err.Error()
					logger.Warn("Extraction failed", "path", path, "error", err)
				}
				outcomes = append(outcomes, outcome)
				if errors.Is(err, service.ErrRateLimited) {
					stopErr = err
					break
				}
			}
			progress.Update(len(outcomes), "done")
			progress.Finish()

			if err := render(cmd.OutOrStdout(), a.output, outcomes, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "FILE\tITEM\tRECORD\tRETRIEVAL\tRESULT")
				for _, o := range outcomes {
					result := truncate(o.Title, 50)
					if o.Error != "" {
						result = "error: " + o.Error
					}
					retrieval := "excerpts"
					if !o.Enriched {
						retrieval = o.Skipped
					}
					fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", filepath.Base(o.Path), o.ItemID, o.RecordID, retrieval, result)
				}
			}); err != nil {
				return err
			}

			if stopErr != nil {
				return stopErr
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d item(s) failed", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "library directory to scan for item files")
	cmd.Flags().StringVar(&pattern, "pattern", "", "doublestar pattern for --dir (default from config)")
	cmd.Flags().Int64Var(&folderID, "folder-id", 0, "file records into this folder")
	cmd.Flags().StringVar(&folderName, "folder", "", "file records into the folder with this name (created if missing)")
	return cmd
}
