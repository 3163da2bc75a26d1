package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lookout/internal/logsapi"
)

func newTestServer(t *testing.T, initialLines int) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	return New(Config{Dir: dir, InitialLines: initialLines, MaxChunkBytes: 64}), dir
}

func get(t *testing.T, s *Server, query url.Values) (*httptest.ResponseRecorder, logsapi.Batch) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/logs-data?"+query.Encode(), nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var batch logsapi.Batch
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	}
	return w, batch
}

func appendLog(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestLogsData_InitialSnapshotThenIncrement(t *testing.T) {
	s, dir := newTestServer(t, 2)
	path := filepath.Join(dir, "Sorc.log")
	appendLog(t, path, "one\ntwo\nthree\n")

	w, batch := get(t, s, url.Values{"characterName": {"Sorc"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.True(t, batch.IsInitial)
	assert.Equal(t, "two\nthree\n", batch.Content)
	assert.Equal(t, logsapi.Cursor("14"), batch.Offset)

	appendLog(t, path, "four\nfive-partial")

	_, next := get(t, s, url.Values{"characterName": {"Sorc"}, "offset": {batch.Offset.String()}})
	assert.False(t, next.IsInitial)
	assert.Equal(t, "four\n", next.Content)
	assert.Equal(t, logsapi.Cursor("19"), next.Offset)

	_, idle := get(t, s, url.Values{"characterName": {"Sorc"}, "offset": {next.Offset.String()}})
	assert.False(t, idle.IsInitial)
	assert.Empty(t, idle.Content)
	assert.Equal(t, next.Offset, idle.Offset)
}

func TestLogsData_BadOffsetFallsBackToSnapshot(t *testing.T) {
	s, dir := newTestServer(t, 10)
	appendLog(t, filepath.Join(dir, "Sorc.log"), "a\nb\n")

	for _, offset := range []string{"", "abc", "-1", "9999"} {
		_, batch := get(t, s, url.Values{"characterName": {"Sorc"}, "offset": {offset}})
		assert.True(t, batch.IsInitial, "offset %q", offset)
		assert.Equal(t, "a\nb\n", batch.Content, "offset %q", offset)
	}
}

func TestLogsData_ChunkIsBounded(t *testing.T) {
	s, dir := newTestServer(t, 10)
	path := filepath.Join(dir, "Sorc.log")
	appendLog(t, path, "")

	line := strings.Repeat("x", 30) + "\n"
	appendLog(t, path, strings.Repeat(line, 5))

	_, batch := get(t, s, url.Values{"characterName": {"Sorc"}, "offset": {"0"}})
	assert.False(t, batch.IsInitial)
	assert.Equal(t, strings.Repeat(line, 2), batch.Content)
	assert.Equal(t, logsapi.Cursor("62"), batch.Offset)
}

func TestLogsData_Errors(t *testing.T) {
	s, _ := newTestServer(t, 10)

	tests := []struct {
		name string
		char string
		want int
	}{
		{"missing name", "", http.StatusBadRequest},
		{"path separator", "../etc/passwd", http.StatusBadRequest},
		{"backslash", `a\b`, http.StatusBadRequest},
		{"dot dot", "..", http.StatusBadRequest},
		{"unknown character", "Nobody", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := get(t, s, url.Values{"characterName": {tt.char}})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, 10)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestServer_WithClient(t *testing.T) {
	s, dir := newTestServer(t, 100)
	path := filepath.Join(dir, "Pala Hammer.log")
	appendLog(t, path, `{"level":"info","msg":"start"}`+"\n")

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	client, err := logsapi.NewClient(ts.URL)
	require.NoError(t, err)

	first, err := client.FetchLogs(context.Background(), logsapi.Query{CharacterName: "Pala Hammer"})
	require.NoError(t, err)
	assert.True(t, first.IsInitial)
	assert.Contains(t, first.Content, "start")

	appendLog(t, path, `{"level":"warn","msg":"chicken"}`+"\n")
	next, err := client.FetchLogs(context.Background(), logsapi.Query{CharacterName: "Pala Hammer", Offset: first.Offset})
	require.NoError(t, err)
	assert.False(t, next.IsInitial)
	assert.Equal(t, `{"level":"warn","msg":"chicken"}`+"\n", next.Content)

	_, err = client.FetchLogs(context.Background(), logsapi.Query{CharacterName: "ghost"})
	assert.ErrorIs(t, err, logsapi.ErrStatus)
}

func TestShutdownWithoutStart(t *testing.T) {
	s, _ := newTestServer(t, 10)
	assert.NoError(t, s.Shutdown(context.Background()))
	// A server shut down before it started never listens.
	assert.NoError(t, s.Start())
}
