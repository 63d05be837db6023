package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnara/scrumbot/internal/report"
	"github.com/tamnara/scrumbot/internal/tracking"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--env-file="}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func fakeProjectAPI(t *testing.T, title string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(string(body), "viewer") {
			_, _ = io.WriteString(w, `{"data":{"viewer":{"login":"scrumbot"}}}`)
			return
		}
		_, _ = fmt.Fprintf(w, `{"data":{"organization":{"projectV2":{"items":{
			"pageInfo":{"hasNextPage":false,"endCursor":"end"},
			"nodes":[{"id":"A","createdAt":"2025-06-02T00:00:00Z","fieldValues":{"nodes":[
				{"__typename":"ProjectV2ItemFieldSingleSelectValue","name":"Weekly-Planning","field":{"name":"Status"}}
			]},"content":{"title":%q,"url":"https://x/1","body":"","assignees":{"nodes":[{"login":"alice"}]}}}]
		}}}}}`, title)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setBoardEnv(t *testing.T, apiURL string) {
	t.Setenv("GITHUB_TOKEN", "ghp")
	t.Setenv("GITHUB_ORG", "tamnara")
	t.Setenv("GITHUB_PROJECT_ID", "7")
	t.Setenv("GITHUB_API_URL", apiURL)
	t.Setenv("USER_MAP", `{"alice":"111","bob":"222"}`)
	t.Setenv("TZ_NAME", "UTC")
	t.Setenv("LOG_LEVEL", "error")
}

func TestCheckPrintsJSON(t *testing.T) {
	srv := fakeProjectAPI(t, tracking.Today(time.Now().UTC())+" alice")
	setBoardEnv(t, srv.URL)

	out, err := runCLI(t, "check", "weekly-plan", "--json")
	require.NoError(t, err)

	var rep struct {
		Kind     string       `json:"kind"`
		Fetched  int          `json:"fetched"`
		Rows     []report.Row `json:"rows"`
		Mentions []string     `json:"mentions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "weekly-planning", rep.Kind)
	assert.Equal(t, 1, rep.Fetched)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, []string{"222"}, rep.Mentions)
}

func TestCheckPrintsTable(t *testing.T) {
	srv := fakeProjectAPI(t, tracking.Today(time.Now().UTC())+" alice")
	setBoardEnv(t, srv.URL)

	out, err := runCLI(t, "check", "weekly-plan", "--json=false")
	require.NoError(t, err)

	assert.Contains(t, out, "1 items fetched")
	assert.Contains(t, out, "222")
	assert.Contains(t, out, "1/2")
}

func TestCheckRejectsUnknownKind(t *testing.T) {
	_, err := runCLI(t, "check", "monthly")
	assert.Error(t, err)
}

func TestHolidayFailsWhenLookupFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	t.Setenv("API_KEY", "k")
	t.Setenv("HOLIDAY_API_URL", srv.URL)
	t.Setenv("TZ_NAME", "UTC")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCLI(t, "holiday", "--json=false")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "holiday lookup")
	assert.Empty(t, out)
}

func TestHolidayRequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("TZ_NAME", "UTC")

	_, err := runCLI(t, "holiday")
	assert.ErrorContains(t, err, "API_KEY")
}
