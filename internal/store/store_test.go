package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	db := openTestStore(t).DB()

	for pragma, want := range map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"synchronous":  "1",
		"busy_timeout": "5000",
	} {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+pragma).Scan(&got), pragma)
		assert.Equal(t, want, got, pragma)
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "xdg"))

	t.Setenv("STUDYBUDDY_DB", "")
	got, err := ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "xdg", "studybuddy", "studybuddy.db"), got)
	assert.DirExists(t, filepath.Dir(got))

	env := filepath.Join(dir, "env", "s.db")
	t.Setenv("STUDYBUDDY_DB", env)
	got, err = ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, env, got)

	flag := filepath.Join(dir, "flag", "s.db")
	got, err = ResolvePath(flag)
	require.NoError(t, err)
	assert.Equal(t, flag, got)
	assert.DirExists(t, filepath.Dir(flag))
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{tableLLMRequestEvents, tableSessionEvents, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestFreshDatabaseSchema(t *testing.T) {
	db := openTestStore(t).DB()

	for _, index := range []string{
		"llm_request_events_purpose",
		"llm_request_events_timestamp",
		"session_events_owner",
		"session_events_session_id",
	} {
		var name string
		require.NoError(t, db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?", index,
		).Scan(&name), index)
	}

	var next int64
	require.NoError(t, db.QueryRow("SELECT next_val FROM global_sequence WHERE id = 1").Scan(&next))
	assert.Equal(t, int64(1), next)
}

func TestOpenTwiceKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Owner: "u1", Kind: "quiz", Action: ActionStart,
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.EventRepo().QuerySessionEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "q1", Owner: "u1", Kind: "quiz", Action: ActionStart}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz", Success: true}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "q1", Owner: "u1", Kind: "quiz", Action: ActionCompleted}))

	sessions, err := repo.QuerySessionEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	llm, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Len(t, llm, 1)

	assert.Equal(t, int64(1), sessions[1].Sequence, "start")
	assert.Equal(t, int64(2), llm[0].Sequence, "generation call")
	assert.Equal(t, int64(3), sessions[0].Sequence, "completed")
}

func TestSequenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.seq.Next(ctx)
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	next, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)
}

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	inputs := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "flashcards", Topic: "mitosis", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req1", ResponseBody: "resp1"},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "quiz", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "quiz", LatencyMs: 600, Success: false, ErrorMessage: "rate limited"},
	}
	for _, in := range inputs {
		require.NoError(t, repo.AppendLLMRequest(ctx, in))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "rate limited", all[0].ErrorMessage, "newest first")
	assert.Greater(t, all[0].Sequence, all[1].Sequence)
	assert.WithinDuration(t, time.Now(), all[0].Timestamp, time.Minute)

	quiz, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz"})
	require.NoError(t, err)
	assert.Len(t, quiz, 2)

	failed, err := repo.QueryLLMEvents(ctx, QueryOpts{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.False(t, failed[0].Success)

	assert.Equal(t, "mitosis", all[2].Topic)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	oldest := all[2]
	got, err := repo.GetLLMEvent(ctx, oldest.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "req1", got.RequestBody)
	assert.Equal(t, "resp1", got.ResponseBody)
	assert.True(t, got.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, in := range []LLMRequestEventData{
		{Model: "gpt-4o-mini", Purpose: "quiz", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Model: "gpt-4o-mini", Purpose: "quiz", InputTokens: 20, OutputTokens: 5, LatencyMs: 300, Success: true},
		{Model: "gpt-4o", Purpose: "explanation", InputTokens: 7, OutputTokens: 3, LatencyMs: 50, Success: true},
		{Model: "gpt-4o", Purpose: "explanation", LatencyMs: 50, Success: false},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, in))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	stats := map[string]LLMUsageStats{}
	for _, st := range byPurpose {
		stats[st.Purpose] = st
	}
	assert.Equal(t, 2, stats["quiz"].Calls)
	assert.Equal(t, 30, stats["quiz"].InputTokens)
	assert.Equal(t, int64(200), stats["quiz"].AvgLatencyMs)
	assert.Equal(t, 2, stats["explanation"].Calls)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	models := map[string]LLMModelUsage{}
	for _, mu := range byModel {
		models[mu.Model] = mu
	}
	assert.Equal(t, 2, models["gpt-4o-mini"].Calls)
	assert.Equal(t, 1, models["gpt-4o"].Calls, "failed calls are not billed")
	assert.Equal(t, 10, models["gpt-4o-mini"].OutputTokens)
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, in := range []SessionEventData{
		{SessionID: "a", Owner: "u1", Kind: "flashcards", Action: ActionStart, Topic: "cells", Total: 3},
		{SessionID: "a", Owner: "u1", Kind: "flashcards", Action: ActionCompleted, Topic: "cells", Total: 3, Correct: 2, Detail: "T1"},
		{SessionID: "b", Owner: "u2", Kind: "quiz", Action: ActionCancelled, Detail: "expired"},
	} {
		require.NoError(t, repo.AppendSessionEvent(ctx, in))
	}

	u1, err := repo.QuerySessionEvents(ctx, QueryOpts{Owner: "u1"})
	require.NoError(t, err)
	require.Len(t, u1, 2)
	assert.Equal(t, ActionCompleted, u1[0].Action)
	assert.Equal(t, 2, u1[0].Correct)
	assert.Equal(t, "T1", u1[0].Detail)

	after, err := repo.QuerySessionEvents(ctx, QueryOpts{After: u1[0].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "u2", after[0].Owner)

	past, err := repo.QuerySessionEvents(ctx, QueryOpts{To: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, past)
}
