package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"litreview-ai/internal/chunker"
	"litreview-ai/internal/service"
	"litreview-ai/internal/source"
	"litreview-ai/internal/storage"
)

// storeStats is the stats command output.
type storeStats struct {
	Folders        int            `json:"folders"`
	Literature     int            `json:"literature"`
	FolderSummary  int            `json:"folderSummary"`
	AICallsToday   int            `json:"aiCallsToday"`
	DailyCallLimit int            `json:"dailyCallLimit"`
	Item           *itemChunkInfo `json:"item,omitempty"`
}

// itemChunkInfo describes how an item's full text would be chunked.
type itemChunkInfo struct {
	ItemID     int64         `json:"itemID"`
	TextRunes  int           `json:"textRunes"`
	ChunkChars int           `json:"chunkChars"`
	Chunks     chunker.Stats `json:"chunks"`
}

func (a *app) newStatsCmd() *cobra.Command {
	var itemPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store counts, today's AI usage and optional chunking stats for an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			folders, err := a.store.ListFolders(ctx)
			if err != nil {
				return err
			}
			st := storeStats{Folders: len(folders), DailyCallLimit: a.cfg.DailyCallLimit}
			if st.Literature, err = a.store.CountRecords(ctx, storage.ListFilter{RecordType: storage.RecordTypeLiterature}); err != nil {
				return err
			}
			if st.FolderSummary, err = a.store.CountRecords(ctx, storage.ListFilter{RecordType: storage.RecordTypeFolderSummary}); err != nil {
				return err
			}
			if st.AICallsToday, err = a.store.CountTodayEventsOfKind(ctx, service.AICallEvents); err != nil {
				return err
			}

			if itemPath != "" {
				item, err := source.LoadItem(itemPath)
				if err != nil {
					return err
				}
				text := source.NormalizeText(item.FullText)
				ch := chunker.New(a.cfg.ChunkChars, a.cfg.MaxChunks)
				st.Item = &itemChunkInfo{
					ItemID:     item.ID,
					TextRunes:  len([]rune(text)),
					ChunkChars: ch.MaxChars(),
					Chunks:     chunker.Summarize(ch.Split(text)),
				}
			}

			return render(cmd.OutOrStdout(), a.output, st, func(tw *tabwriter.Writer) {
				limit := "unlimited"
				if st.DailyCallLimit > 0 {
					limit = fmt.Sprint(st.DailyCallLimit)
				}
				fmt.Fprintf(tw, "Folders:\t%d\n", st.Folders)
				fmt.Fprintf(tw, "Literature records:\t%d\n", st.Literature)
				fmt.Fprintf(tw, "Folder summaries:\t%d\n", st.FolderSummary)
				fmt.Fprintf(tw, "AI calls today:\t%d / %s\n", st.AICallsToday, limit)
				if it := st.Item; it != nil {
					fmt.Fprintf(tw, "Item %d full text:\t%d runes\n", it.ItemID, it.TextRunes)
					fmt.Fprintf(tw, "Chunks (budget %d):\t%d\n", it.ChunkChars, it.Chunks.Count)
					fmt.Fprintf(tw, "Tokens per chunk:\tmin %d, max %d, mean %.1f, p95 %d\n",
						it.Chunks.Tokens.Min, it.Chunks.Tokens.Max, it.Chunks.Tokens.Mean, it.Chunks.Tokens.P95)
				}
			})
		},
	}
	cmd.Flags().StringVar(&itemPath, "item", "", "item file to report chunking stats for")
	return cmd
}
