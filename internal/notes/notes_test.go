package notes_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/model"
	"github.com/existflow/journal/internal/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu       sync.Mutex
	requests []notes.ChatRequest
	keys     []string
	reply    string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, apiKey string, req notes.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	f.keys = append(f.keys, apiKey)
	return f.reply, f.err
}

func openDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(context.Background(), db.Options{Path: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildSummaryMessagesPreservesOrder(t *testing.T) {
	entries := []model.Entry{
		{Content: "third", DateCreated: ts("2024-01-03T00:00:00Z")},
		{Content: "first", DateCreated: ts("2024-01-01T00:00:00Z")},
		{Content: "second\nline two", DateCreated: ts("2024-01-02T10:30:00Z")},
	}

	messages := notes.BuildSummaryMessages(entries)
	require.Len(t, messages, 3)
	for _, m := range messages {
		assert.Equal(t, notes.RoleUser, m.Role)
	}
	assert.Equal(t, "2024-01-03T00:00:00.000Z:\nthird", messages[0].Content)
	assert.Equal(t, "2024-01-01T00:00:00.000Z:\nfirst", messages[1].Content)
	assert.Equal(t, "2024-01-02T10:30:00.000Z:\nsecond\nline two", messages[2].Content)

	assert.Empty(t, notes.BuildSummaryMessages(nil))
}

func TestBuildPeriodicPrompt(t *testing.T) {
	prompt := notes.BuildPeriodicPrompt("2024-01-01 to 2024-01-07", []notes.ProjectNotes{
		{Project: "Alpha", Notes: "did a thing"},
		{Project: "Beta", Notes: ""},
		{Project: "Gamma", Notes: "line one\nline two"},
	})

	assert.Equal(t, "# 2024-01-01 to 2024-01-07\n\n"+
		"## Alpha\ndid a thing\n\n"+
		"## Beta\n\n\n"+
		"## Gamma\nline one\nline two", prompt)
	assert.Equal(t, 3, strings.Count(prompt, "\n## "))
	assert.Less(t, strings.Index(prompt, "## Alpha"), strings.Index(prompt, "## Beta"))
	assert.Less(t, strings.Index(prompt, "## Beta"), strings.Index(prompt, "## Gamma"))
}

func TestSummarizeRequiresCredential(t *testing.T) {
	database := openDB(t)
	client := &fakeCompleter{reply: "unused"}
	gen := notes.NewGenerator(database, client, "")

	_, err := gen.SummarizeProjectEntries(context.Background(), []model.Entry{{Content: "A"}})
	assert.True(t, errors.Is(err, notes.ErrCredentialNotSet))

	var cfgErr *notes.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, notes.KeyAPIKey, cfgErr.Setting)
	assert.Empty(t, client.requests, "no request may be sent without a credential")

	_, err = gen.GeneratePeriodicUpdate(context.Background(), "label", nil)
	assert.True(t, errors.Is(err, notes.ErrCredentialNotSet))
	assert.Empty(t, client.requests)
}

func TestSummarizeScenario(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	require.NoError(t, database.SetSetting(ctx, notes.KeyAPIKey, "sk-test"))

	id, err := database.CreateProject(ctx, "Alpha")
	require.NoError(t, err)
	_, err = database.CreateEntry(ctx, id, ts("2024-01-01T00:00:00Z"), ts("2024-01-01T00:00:00Z"), "A")
	require.NoError(t, err)
	_, err = database.CreateEntry(ctx, id, ts("2024-01-02T00:00:00Z"), ts("2024-01-02T00:00:00Z"), "B")
	require.NoError(t, err)

	entries, err := database.ListEntries(ctx, id)
	require.NoError(t, err)

	client := &fakeCompleter{reply: "- summary"}
	gen := notes.NewGenerator(database, client, "test-model")

	out, err := gen.SummarizeProjectEntries(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, "- summary", out)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "sk-test", client.keys[0])
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, notes.DefaultProjectSummaryPrompt, req.System)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[0].Content, "A")
	assert.Contains(t, req.Messages[1].Content, "B")
	assert.True(t, strings.HasPrefix(req.Messages[0].Content, "2024-01-01"))
}

func TestSummarizeUsesStoredTemplate(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	require.NoError(t, database.SetSetting(ctx, notes.KeyAPIKey, "sk-test"))
	require.NoError(t, database.SetSetting(ctx, notes.KeyProjectSummaryPrompt, "Be brief."))
	require.NoError(t, database.SetSetting(ctx, notes.KeyPeriodicUpdatePrompt, "Be briefer."))

	client := &fakeCompleter{reply: "ok"}
	gen := notes.NewGenerator(database, client, "")

	_, err := gen.SummarizeProjectEntries(ctx, nil)
	require.NoError(t, err)
	_, err = gen.GeneratePeriodicUpdate(ctx, "week 1", []notes.ProjectNotes{{Project: "Alpha", Notes: "x"}})
	require.NoError(t, err)

	require.Len(t, client.requests, 2)
	assert.Equal(t, "Be brief.", client.requests[0].System)
	assert.Equal(t, notes.DefaultModel, client.requests[0].Model)

	periodic := client.requests[1]
	assert.Equal(t, "Be briefer.", periodic.System)
	require.Len(t, periodic.Messages, 1)
	assert.Equal(t, notes.RoleUser, periodic.Messages[0].Role)
	assert.Equal(t, "# week 1\n\n## Alpha\nx", periodic.Messages[0].Content)
}

func TestEmptyContentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	require.NoError(t, database.SetSetting(ctx, notes.KeyAPIKey, "sk-test"))

	gen := notes.NewGenerator(database, &fakeCompleter{reply: ""}, "")
	out, err := gen.SummarizeProjectEntries(ctx, []model.Entry{{Content: "A"}})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "No notes were generated.", notes.OrPlaceholder(out))
	assert.Equal(t, "text", notes.OrPlaceholder("text"))
}

func TestCompleterFailureBecomesRequestError(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	require.NoError(t, database.SetSetting(ctx, notes.KeyAPIKey, "sk-test"))

	cause := errors.New("connection reset")
	client := &fakeCompleter{err: cause}
	gen := notes.NewGenerator(database, client, "")

	_, err := gen.SummarizeProjectEntries(ctx, []model.Entry{{Content: "A"}})
	var reqErr *notes.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, errors.Is(err, cause))
	assert.Len(t, client.requests, 1, "failures are not retried")
}

func TestCollectPeriodicNotes(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)

	alpha, _ := database.CreateProject(ctx, "Alpha")
	beta, _ := database.CreateProject(ctx, "Beta")
	_, _ = database.CreateProject(ctx, "Idle")

	_, _ = database.CreateEntry(ctx, alpha, ts("2024-01-02T09:00:00Z"), ts("2024-01-02T09:00:00Z"), "alpha one")
	_, _ = database.CreateEntry(ctx, alpha, ts("2024-01-03T09:00:00Z"), ts("2024-01-03T09:00:00Z"), "alpha two")
	_, _ = database.CreateEntry(ctx, beta, ts("2024-01-07T22:00:00Z"), ts("2024-01-07T22:00:00Z"), "beta late")
	_, _ = database.CreateEntry(ctx, beta, ts("2024-01-09T00:00:00Z"), ts("2024-01-09T00:00:00Z"), "out of range")

	start, end := notes.PeriodBounds(ts("2024-01-01T15:00:00Z"), ts("2024-01-07T01:00:00Z"))
	collected, err := notes.CollectPeriodicNotes(ctx, database, start, end)
	require.NoError(t, err)

	require.Len(t, collected, 3)
	assert.Equal(t, "Alpha", collected[0].Project)
	assert.Equal(t, "2024-01-02T09:00:00.000Z:\nalpha one\n\n2024-01-03T09:00:00.000Z:\nalpha two", collected[0].Notes)
	assert.Equal(t, "Beta", collected[1].Project)
	assert.Equal(t, "2024-01-07T22:00:00.000Z:\nbeta late", collected[1].Notes)
	assert.Equal(t, "Idle", collected[2].Project)
	assert.Empty(t, collected[2].Notes)

	assert.Equal(t, "2024-01-01 to 2024-01-07", notes.RangeLabel(start, end))
}

func TestPeriodBoundsUseUTCDays(t *testing.T) {
	east := time.FixedZone("UTC+3", 3*60*60)
	startDay := time.Date(2024, 3, 4, 1, 0, 0, 0, east)
	endDay := time.Date(2024, 3, 10, 1, 0, 0, 0, east)

	start, end := notes.PeriodBounds(startDay, endDay)
	assert.Equal(t, ts("2024-03-03T00:00:00Z"), start)
	assert.Equal(t, "2024-03-09T23:59:59.999Z", model.FormatTimestamp(end))
	assert.Equal(t, "2024-03-03 to 2024-03-09", notes.RangeLabel(startDay, endDay))
	assert.Equal(t, notes.RangeLabel(startDay, endDay), notes.RangeLabel(start, end))
}

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) *notes.OpenAIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return notes.NewOpenAIClient(srv.URL + "/v1")
}

func TestOpenAIClientSendsSystemAndMessages(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string

	client := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4-0125-preview",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "first"}, "finish_reason": "stop"},
				{"index": 1, "message": {"role": "assistant", "content": "second"}, "finish_reason": "stop"}
			]
		}`))
	})

	out, err := client.Complete(context.Background(), "sk-test", notes.ChatRequest{
		Model:  "gpt-4-0125-preview",
		System: "sys",
		Messages: []notes.Message{
			{Role: notes.RoleUser, Content: "one"},
			{Role: notes.RoleUser, Content: "two"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4-0125-preview", got.Model)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "sys", got.Messages[0].Content)
	assert.Equal(t, "one", got.Messages[1].Content)
	assert.Equal(t, "two", got.Messages[2].Content)
}

func TestOpenAIClientNoChoices(t *testing.T) {
	client := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`))
	})

	_, err := client.Complete(context.Background(), "sk-test", notes.ChatRequest{Model: "m"})
	var reqErr *notes.RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestOpenAIClientServerError(t *testing.T) {
	calls := 0
	client := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	})

	_, err := client.Complete(context.Background(), "sk-test", notes.ChatRequest{Model: "m"})
	var reqErr *notes.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, 1, calls)
}
