package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"litreview-ai/internal/contextutil"
	"litreview-ai/internal/llm"
	"litreview-ai/internal/prompt"
	"litreview-ai/internal/rag"
	"litreview-ai/internal/source"
	"litreview-ai/internal/storage"
)

// ExtractRequest asks for one item to be turned into a literature record.
type ExtractRequest struct {
	Item source.Item
	// FolderID or FolderName select where the record is filed; see
	// storage.UpsertOptions.
	FolderID   *int64
	FolderName string
}

// ExtractResult is the stored record and how retrieval went.
type ExtractResult struct {
	Record storage.Record
	// Enriched reports whether retrieval excerpts were added to the prompt.
	Enriched bool
	// Skipped explains why retrieval was not used; empty when Enriched.
	Skipped rag.SkipReason
}

// ReviewService turns items into records and folders into summaries.
type ReviewService struct {
	store   storage.ReviewStore
	llm     LLMClient
	builder ContextBuilder
	opts    Options

	fieldKeys []string
}

// NewReviewService creates a ReviewService. builder may be nil, in which case
// extraction never uses retrieval.
func NewReviewService(store storage.ReviewStore, llmClient LLMClient, builder ContextBuilder, opts Options) *ReviewService {
	if strings.TrimSpace(opts.ExtractionTemplate) == "" {
		opts.ExtractionTemplate = prompt.DefaultExtractionTemplate
	}
	if strings.TrimSpace(opts.SummaryTemplate) == "" {
		opts.SummaryTemplate = prompt.DefaultSummaryTemplate
	}
	if opts.MaxSourceChars <= 0 {
		opts.MaxSourceChars = DefaultMaxSourceChars
	}
	if opts.MaxFullTextChars <= 0 {
		opts.MaxFullTextChars = DefaultMaxFullTextChars
	}
	return &ReviewService{
		store:     store,
		llm:       llmClient,
		builder:   builder,
		opts:      opts,
		fieldKeys: prompt.ParseFieldKeys(opts.ExtractionTemplate),
	}
}

// FieldKeys returns the output keys the extraction template asks for.
func (s *ReviewService) FieldKeys() []string {
	return append([]string(nil), s.fieldKeys...)
}

// Extract builds the prompt for req.Item, asks the model for a record and
// stores it.
func (s *ReviewService) Extract(ctx context.Context, req ExtractRequest) (ExtractResult, error) {
	logger := contextutil.LoggerFromContext(ctx).With("zotero_item_id", req.Item.ID)

	if req.Item.ID <= 0 {
		return ExtractResult{}, &ValidationError{Field: "item.id", Message: "must be positive"}
	}
	if err := s.checkQuota(ctx); err != nil {
		return ExtractResult{}, err
	}

	result := ExtractResult{Skipped: rag.SkipNoFullText}
	var enrichment string
	fullText := source.NormalizeText(req.Item.FullText)
	if s.builder == nil {
		result.Skipped = rag.SkipDisabled
	} else if fullText != "" {
		built := s.builder.Build(ctx, rag.Document{
			Title:    req.Item.Title,
			Authors:  req.Item.Authors(),
			Abstract: source.NormalizeText(req.Item.AbstractNote),
			Text:     fullText,
		})
		if built.OK() {
			enrichment = built.Context.Text
			result.Enriched, result.Skipped = true, ""
			logger.DebugContext(ctx, "retrieval context built",
				"chunks", built.Context.ChunkCount,
				"excerpts", len(built.Context.Excerpts),
				"chars", utf8.RuneCountInString(enrichment),
			)
		} else {
			result.Skipped = built.Skipped
			logger.InfoContext(ctx, "retrieval skipped", "reason", built.Skipped)
		}
	}

	// Excerpts stand in for the full text when retrieval worked.
	baseItem := req.Item
	if result.Enriched {
		baseItem.FullText = ""
	}
	base := source.BuildContent(baseItem, s.opts.MaxFullTextChars)
	if strings.TrimSpace(base) == "" && enrichment == "" {
		return ExtractResult{}, &ValidationError{Field: "item", Message: "has no content to review"}
	}

	src := prompt.MergeSource(base, enrichment, s.opts.MaxSourceChars)
	message := prompt.Render(s.opts.ExtractionTemplate, prompt.Values{prompt.PlaceholderSource: src}, prompt.PlaceholderSource)

	reply, err := s.llm.ChatWithMessages(ctx, []llm.Message{{Role: llm.RoleUser, Content: message}}, llm.ChatParams{JSONMode: true})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return ExtractResult{}, externalError(err, "failed to get LLM response")
	}

	draft, err := ParseDraft(reply, s.fieldKeys)
	if err != nil {
		logger.WarnContext(ctx, "failed to parse LLM response", "error", err, "reply_length", len(reply))
		return ExtractResult{}, WrapError(err, "failed to parse LLM response")
	}
	if missing := MissingKeys(reply, s.fieldKeys); len(missing) > 0 {
		logger.DebugContext(ctx, "reply is missing template keys", "keys", missing)
	}
	fillFromItem(&draft, req.Item)
	draft.ZoteroItemID = req.Item.ID
	draft.AIProvider = s.llm.ProviderName()
	draft.AIModel = s.llm.ModelName()
	draft.RawAIResponse = reply
	draft.AnnotationNotes = source.FormatAnnotations(req.Item.Annotations)

	rec, err := s.store.UpsertRecord(ctx, draft, storage.UpsertOptions{FolderID: req.FolderID, FolderName: req.FolderName})
	if err != nil {
		return ExtractResult{}, WrapError(err, "failed to store record")
	}
	result.Record = rec

	s.track(ctx, EventExtract, map[string]any{
		"recordID":     rec.ID,
		"zoteroItemID": rec.ZoteroItemID,
		"provider":     rec.AIProvider,
		"model":        rec.AIModel,
		"enriched":     result.Enriched,
		"skipped":      string(result.Skipped),
	})

	logger.InfoContext(ctx, "record extracted",
		"record_id", rec.ID,
		"enriched", result.Enriched,
		"source_chars", utf8.RuneCountInString(src),
	)
	return result, nil
}

// fillFromItem falls back to the item's own metadata for bibliographic
// fields the model left empty.
func fillFromItem(draft *storage.RecordDraft, it source.Item) {
	if draft.Title == "" {
		draft.Title = strings.TrimSpace(it.Title)
	}
	if draft.Authors == "" {
		draft.Authors = it.Authors()
	}
	if draft.Journal == "" {
		draft.Journal = strings.TrimSpace(it.PublicationTitle)
	}
	if draft.PublicationDate == "" {
		draft.PublicationDate = strings.TrimSpace(it.Date)
	}
	if draft.Abstract == "" {
		draft.Abstract = source.NormalizeText(it.AbstractNote)
	}
}

// SummarizeFolder synthesizes the literature records of a folder into a new
// folder summary record.
func (s *ReviewService) SummarizeFolder(ctx context.Context, folderID int64) (storage.Record, error) {
	logger := contextutil.LoggerFromContext(ctx).With("folder_id", folderID)

	folders, err := s.store.ListFolders(ctx)
	if err != nil {
		return storage.Record{}, WrapError(err, "failed to list folders")
	}
	var folder *storage.FolderSummary
	for i := range folders {
		if folders[i].ID == folderID {
			folder = &folders[i]
			break
		}
	}
	if folder == nil {
		return storage.Record{}, &storage.Error{Reason: storage.ReasonFolderNotFound, Message: fmt.Sprintf("folder %d not found", folderID)}
	}

	records, err := s.store.ListRecords(ctx, storage.ListFilter{
		RecordType: storage.RecordTypeLiterature,
		FolderID:   &folderID,
		SortKey:    storage.SortTitle,
		Ascending:  true,
	})
	if err != nil {
		return storage.Record{}, WrapError(err, "failed to list folder records")
	}
	if len(records) == 0 {
		return storage.Record{}, &ValidationError{Field: "folder", Message: "has no literature records to summarize"}
	}
	if err := s.checkQuota(ctx); err != nil {
		return storage.Record{}, err
	}

	block, included := renderRecords(records, s.opts.MaxSourceChars)
	if len(included) < len(records) {
		logger.WarnContext(ctx, "folder summary source truncated", "included", len(included), "total", len(records))
	}
	message := prompt.Render(s.opts.SummaryTemplate, prompt.Values{
		prompt.PlaceholderFolderName:  folder.Name,
		prompt.PlaceholderRecordCount: strconv.Itoa(len(included)),
		prompt.PlaceholderRecords:     block,
	}, prompt.PlaceholderRecords)

	reply, err := s.llm.ChatWithMessages(ctx, []llm.Message{{Role: llm.RoleUser, Content: message}}, llm.ChatParams{})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return storage.Record{}, externalError(err, "failed to get LLM response")
	}
	summary := strings.TrimSpace(reply)
	if summary == "" {
		return storage.Record{}, fmt.Errorf("%w: empty summary", ErrMalformedResponse)
	}

	sources := make([]storage.SummarySource, 0, len(included))
	for _, r := range included {
		sources = append(sources, storage.SummarySource{RecordID: r.ID, ZoteroItemID: r.ZoteroItemID})
	}
	rec, err := s.store.CreateFolderSummaryRecord(ctx, folderID, folder.Name, summary, sources, s.llm.ProviderName(), s.llm.ModelName())
	if err != nil {
		return storage.Record{}, WrapError(err, "failed to store folder summary")
	}

	s.track(ctx, EventFolderSummary, map[string]any{
		"recordID":    rec.ID,
		"folderID":    folderID,
		"sourceCount": len(sources),
		"provider":    rec.AIProvider,
		"model":       rec.AIModel,
	})
	logger.InfoContext(ctx, "folder summarized", "record_id", rec.ID, "sources", len(sources))
	return rec, nil
}

// renderRecords lists records for the summary prompt, dropping whole records
// that would push the block past maxChars.
func renderRecords(records []storage.Record, maxChars int) (string, []storage.Record) {
	var sb strings.Builder
	var included []storage.Record
	used := 0
	for i, r := range records {
		entry := renderRecord(i+1, r)
		n := utf8.RuneCountInString(entry)
		if len(included) > 0 && maxChars > 0 && used+n > maxChars {
			sb.WriteString(prompt.TruncationMarker)
			break
		}
		sb.WriteString(entry)
		used += n
		included = append(included, r)
	}
	return strings.TrimSpace(sb.String()), included
}

func renderRecord(n int, r storage.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %d. %s\n", n, r.Title)
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, value)
		}
	}
	line("Authors", r.Authors)
	line("Journal", r.Journal)
	line("Date", r.PublicationDate)
	line("Methods", r.Methods)
	if len(r.KeyFindings) > 0 {
		sb.WriteString("Key findings:\n")
		for _, f := range r.KeyFindings {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}
	line("Conclusions", r.Conclusions)
	if len(r.ClassificationTags) > 0 {
		line("Tags", strings.Join(r.ClassificationTags, ", "))
	}
	sb.WriteString("\n")
	return sb.String()
}

// checkQuota enforces the daily AI call limit.
func (s *ReviewService) checkQuota(ctx context.Context) error {
	if s.opts.DailyCallLimit <= 0 {
		return nil
	}
	used, err := s.store.CountTodayEventsOfKind(ctx, AICallEvents)
	if err != nil {
		return WrapError(err, "failed to count today's AI calls")
	}
	if used >= s.opts.DailyCallLimit {
		return fmt.Errorf("%w: %d of %d calls used today", ErrRateLimited, used, s.opts.DailyCallLimit)
	}
	return nil
}

// track records a usage event tagged with the run id, if any. Failures are
// logged, not returned, since the record itself is already stored.
func (s *ReviewService) track(ctx context.Context, name string, payload map[string]any) {
	if runID := contextutil.RunIDFromContext(ctx); runID != "" {
		payload["runID"] = runID
	}
	if err := s.store.TrackEvent(ctx, name, payload); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to track event", "event", name, "error", err)
	}
}
