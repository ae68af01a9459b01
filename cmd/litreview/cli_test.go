package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"litreview-ai/internal/service"
	"litreview-ai/internal/storage"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const extractionReply = `{"title": "Grasping in Clutter", "authors": "Doe, Jane", "review": "Solid work.", "keyFindings": ["Finding one"], "classificationTags": ["robotics"], "studyDesign": "simulation"}`

// fakeLLM serves chat completions: JSON-mode requests get an extraction
// reply, everything else a plain summary.
func fakeLLM(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		var req struct {
			ResponseFormat *struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		content := "The folder covers grasping research."
		if req.ResponseFormat != nil {
			content = extractionReply
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// writeConfig writes a config file pointing at a fresh store and the given
// LLM server, with retrieval disabled.
func writeConfig(t *testing.T, llmURL string, extra string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`store_path: %s
log_level: error
llm_provider: local
llm_base_url: %s
llm_model: test-model
embeddings_enabled: false
daily_call_limit: 3
%s`, filepath.Join(dir, "store.json"), llmURL, extra)
	path := filepath.Join(dir, "litreview.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func writeItem(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write item: %v", err)
	}
	return path
}

// run executes the CLI and returns what it wrote to stdout.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CI", "1")
	a := newApp()
	cmd := a.newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := a.execute(context.Background(), cmd)
	if a.store != nil {
		t.Error("store left open after the command")
	}
	return out.String(), err
}

func TestCLI_ExtractAndOrganize(t *testing.T) {
	var calls atomic.Int32
	server := fakeLLM(t, &calls)
	cfgPath := writeConfig(t, server.URL, "")

	lib := t.TempDir()
	writeItem(t, lib, "robotics/a.json", `{"id": 42, "title": "Grasping in Clutter", "abstractNote": "We study grasping.", "fullText": "Intro.\n\nMethods."}`)
	writeItem(t, lib, "robotics/b.yaml", "id: 43\ntitle: Second Paper\nabstractNote: Another study.\n")

	out, err := run(t, cfgPath, "-o", "json", "extract", "--dir", lib, "--folder", "Robotics")
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var outcomes []extractOutcome
	if err := json.Unmarshal([]byte(out), &outcomes); err != nil {
		t.Fatalf("failed to decode extract output %q: %v", out, err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("extract outcomes = %d, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Error != "" || o.RecordID == 0 {
			t.Errorf("extract outcome = %+v", o)
		}
		if o.Enriched || o.Skipped == "" {
			t.Errorf("extract outcome with retrieval disabled = %+v", o)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("LLM calls = %d, want 2", got)
	}

	out, err = run(t, cfgPath, "-o", "json", "folder", "list")
	if err != nil {
		t.Fatalf("folder list error = %v", err)
	}
	var folders []storage.FolderSummary
	if err := json.Unmarshal([]byte(out), &folders); err != nil {
		t.Fatalf("failed to decode folders: %v", err)
	}
	var robotics *storage.FolderSummary
	for i := range folders {
		if folders[i].Name == "Robotics" {
			robotics = &folders[i]
		}
	}
	if robotics == nil || robotics.RecordCount != 2 {
		t.Fatalf("folder list = %+v, want Robotics with 2 records", folders)
	}

	out, err = run(t, cfgPath, "summarize", fmt.Sprint(robotics.ID))
	if err != nil {
		t.Fatalf("summarize error = %v", err)
	}
	if !strings.Contains(out, "The folder covers grasping research.") || !strings.Contains(out, "2 sources") {
		t.Errorf("summarize output = %q", out)
	}

	out, err = run(t, cfgPath, "-o", "json", "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	var st storeStats
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if st.Literature != 2 || st.FolderSummary != 1 || st.AICallsToday != 3 || st.DailyCallLimit != 3 {
		t.Errorf("stats = %+v", st)
	}

	// The daily limit of 3 is used up.
	_, err = run(t, cfgPath, "extract", filepath.Join(lib, "robotics/a.json"))
	if !errors.Is(err, service.ErrRateLimited) {
		t.Fatalf("extract over limit error = %v, want ErrRateLimited", err)
	}
	if code := exitCode(err); code != 3 {
		t.Errorf("exitCode() = %d, want 3", code)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("LLM calls after limit = %d, want 3", got)
	}
}

func TestCLI_ExtractReportsItemFailures(t *testing.T) {
	var calls atomic.Int32
	server := fakeLLM(t, &calls)
	cfgPath := writeConfig(t, server.URL, "")

	dir := t.TempDir()
	good := writeItem(t, dir, "good.json", `{"id": 7, "title": "Good"}`)
	bad := writeItem(t, dir, "bad.json", `{"title": "no id"}`)

	out, err := run(t, cfgPath, "extract", good, bad)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("extract error = %v, want one failure reported", err)
	}
	if !strings.Contains(out, "good.json") || !strings.Contains(out, "error:") {
		t.Errorf("extract table = %q", out)
	}
	if _, err := run(t, cfgPath, "extract"); err == nil {
		t.Error("extract without inputs succeeded")
	}
}

func TestCLI_FolderAndRecordCommands(t *testing.T) {
	var calls atomic.Int32
	server := fakeLLM(t, &calls)
	cfgPath := writeConfig(t, server.URL, "")
	item := writeItem(t, t.TempDir(), "item.json", `{"id": 9, "title": "Paper"}`)

	if _, err := run(t, cfgPath, "extract", item); err != nil {
		t.Fatalf("extract error = %v", err)
	}

	out, err := run(t, cfgPath, "-o", "json", "folder", "create", "Reading")
	if err != nil {
		t.Fatalf("folder create error = %v", err)
	}
	var folder storage.Folder
	if err := json.Unmarshal([]byte(out), &folder); err != nil {
		t.Fatalf("failed to decode folder: %v", err)
	}

	out, err = run(t, cfgPath, "-o", "json", "record", "list")
	if err != nil {
		t.Fatalf("record list error = %v", err)
	}
	var page recordPage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("failed to decode record page: %v", err)
	}
	if page.Total != 1 || len(page.Records) != 1 {
		t.Fatalf("record list = %+v", page)
	}
	recordID := fmt.Sprint(page.Records[0].ID)
	folderID := fmt.Sprint(folder.ID)

	if _, err := run(t, cfgPath, "record", "assign", folderID, recordID); err != nil {
		t.Fatalf("record assign error = %v", err)
	}
	out, err = run(t, cfgPath, "-o", "yaml", "record", "show", recordID)
	if err != nil {
		t.Fatalf("record show error = %v", err)
	}
	if !strings.Contains(out, "title: Grasping in Clutter") || !strings.Contains(out, "name: Reading") {
		t.Errorf("record show yaml = %q", out)
	}

	if _, err := run(t, cfgPath, "--yes", "folder", "delete", folderID); err != nil {
		t.Fatalf("folder delete error = %v", err)
	}
	if _, err := run(t, cfgPath, "--yes", "record", "delete", recordID); err != nil {
		t.Fatalf("record delete error = %v", err)
	}
	_, err = run(t, cfgPath, "record", "show", recordID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("record show after delete error = %v, want ErrNotFound", err)
	}
	if code := exitCode(err); code != 2 {
		t.Errorf("exitCode() = %d, want 2", code)
	}
}

func TestCLI_InvalidOutputFormat(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1", "")
	if _, err := run(t, cfgPath, "-o", "xml", "folder", "list"); err == nil {
		t.Error("invalid output format accepted")
	}
}

func TestCLI_StatsItemChunks(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1", "chunk_chars: 200\n")
	text := strings.Repeat("A sentence of filler text. ", 40)
	item := writeItem(t, t.TempDir(), "item.yaml", fmt.Sprintf("id: 5\ntitle: Long\nfullText: %q\n", text))

	out, err := run(t, cfgPath, "-o", "json", "stats", "--item", item)
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	var st storeStats
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if st.Item == nil || st.Item.ItemID != 5 || st.Item.ChunkChars != 200 {
		t.Fatalf("stats item = %+v", st.Item)
	}
	if st.Item.Chunks.Count < 5 {
		t.Errorf("chunk count = %d, want at least 5", st.Item.Chunks.Count)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic", err: errors.New("boom"), want: 1},
		{name: "invalid input", err: &service.ValidationError{Field: "x", Message: "bad"}, want: 2},
		{name: "not found", err: fmt.Errorf("wrap: %w", storage.ErrNotFound), want: 2},
		{name: "storage error", err: &storage.Error{Reason: storage.ReasonEmptyName, Message: "bad name"}, want: 2},
		{name: "rate limited", err: service.ErrRateLimited, want: 3},
		{name: "external", err: fmt.Errorf("x: %w", service.ErrExternalService), want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &lineReporter{w: &buf}
	r.Start(2)
	r.Update(1, "a.json")
	r.Finish()
	want := "Extracting 2 items\n[1/2] a.json\nExtraction complete\n"
	if buf.String() != want {
		t.Errorf("lineReporter output = %q, want %q", buf.String(), want)
	}
}

func TestRender(t *testing.T) {
	v := map[string]any{"name": "Robotics", "tags": []string{"a", "b"}}

	var buf bytes.Buffer
	if err := render(&buf, formatYAML, v, nil); err != nil {
		t.Fatalf("render yaml error = %v", err)
	}
	if buf.String() != "name: Robotics\ntags:\n  - a\n  - b\n" {
		t.Errorf("render yaml = %q", buf.String())
	}

	buf.Reset()
	if err := render(&buf, formatJSON, v, nil); err != nil {
		t.Fatalf("render json error = %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "Robotics"`) {
		t.Errorf("render json = %q", buf.String())
	}
}

func TestCLI_FailingCommandClosesStore(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1", "")

	a := newApp()
	cmd := a.newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", cfgPath, "record", "show", "99"})

	err := a.execute(context.Background(), cmd)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("execute() error = %v, want ErrNotFound", err)
	}
	if a.store != nil {
		t.Error("store still open after a failing command")
	}
}

func TestCLI_Template(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeItem(t, dir, "extract.txt", "Paper:\n{{source}}\n{{venue}}\nReturn {\"title\": \"...\", \"novelty\": \"...\"}")
	cfgPath := writeConfig(t, "http://127.0.0.1:1", fmt.Sprintf("extraction_template_path: %s\n", tplPath))

	out, err := run(t, cfgPath, "-o", "json", "template")
	if err != nil {
		t.Fatalf("template error = %v", err)
	}
	var reports []templateReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("failed to decode template output %q: %v", out, err)
	}
	if len(reports) != 2 {
		t.Fatalf("template reports = %d, want 2", len(reports))
	}

	extraction := reports[0]
	if extraction.Path != tplPath {
		t.Errorf("extraction path = %q, want %q", extraction.Path, tplPath)
	}
	if strings.Join(extraction.Placeholders, ",") != "source,venue" {
		t.Errorf("extraction placeholders = %v", extraction.Placeholders)
	}
	if strings.Join(extraction.Unknown, ",") != "venue" || len(extraction.Appended) != 0 {
		t.Errorf("extraction unknown/appended = %v/%v", extraction.Unknown, extraction.Appended)
	}
	if strings.Join(extraction.FieldKeys, ",") != "title,novelty" {
		t.Errorf("extraction field keys = %v", extraction.FieldKeys)
	}

	summary := reports[1]
	if summary.Path != "" || len(summary.Unknown) != 0 || len(summary.Appended) != 0 {
		t.Errorf("built-in summary template report = %+v", summary)
	}
}
