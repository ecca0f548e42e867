package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/naka-gawa/github-viewer/internal/render"
	"github.com/naka-gawa/github-viewer/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeFetcher serves canned GitHub data keyed by user and repository.
type fakeFetcher struct {
	repos     map[string][]domain.Repository
	languages map[string]domain.LanguageBreakdown
}

func (f *fakeFetcher) FetchRepositories(ctx context.Context, userID string) ([]domain.Repository, error) {
	repos, ok := f.repos[userID]
	if !ok {
		return nil, domain.NewProviderError("list repositories", userID, http.StatusNotFound, false, errors.New("Not Found"))
	}
	return repos, nil
}

func (f *fakeFetcher) FetchLanguages(ctx context.Context, owner, repo string) (domain.LanguageBreakdown, error) {
	langs, ok := f.languages[repo]
	if !ok {
		return nil, domain.NewProviderError("list languages", repo, http.StatusInternalServerError, false, errors.New("boom"))
	}
	return langs, nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	fetcher := &fakeFetcher{
		repos: map[string][]domain.Repository{
			"octocat": {
				{Name: "a", URL: "https://github.com/octocat/a"},
				{Name: "b", URL: "https://github.com/octocat/b"},
			},
		},
		languages: map[string]domain.LanguageBreakdown{
			"a": {{Name: "Go", Bytes: 10}, {Name: "TS", Bytes: 5}},
			"b": {{Name: "Go", Bytes: 3}},
		},
	}
	languages := usecase.NewLanguageFetcher(fetcher, 1, zerolog.Nop())
	viewer := usecase.NewViewer(fetcher, languages, "octocat", nil, zerolog.Nop())
	srv := New(viewer, fetcher, languages, render.Size{Height: "500px", Width: "800px"}, zerolog.Nop())
	t.Cleanup(srv.Close)
	return srv, srv.Router()
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Origin", "https://portfolio.example.com")
	router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) domain.Snapshot {
	t.Helper()
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func TestServer_Health(t *testing.T) {
	_, router := newTestServer(t)
	w := serve(router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ViewerLifecycle(t *testing.T) {
	srv, router := newTestServer(t)

	w := serve(router, http.MethodGet, "/api/v1/viewer")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusLoading, decodeSnapshot(t, w).Status)

	w = serve(router, http.MethodPost, "/api/v1/viewer/refresh")
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		return srv.viewer.Snapshot().Status == domain.StatusReady
	}, 2*time.Second, 10*time.Millisecond)

	snap := decodeSnapshot(t, serve(router, http.MethodGet, "/api/v1/viewer"))
	assert.Equal(t, 2, snap.RepoCount)
	assert.Equal(t, []domain.ChartEntry{
		{Name: "Go", Value: 2, Percent: 66.67},
		{Name: "TS", Value: 1, Percent: 33.33},
	}, snap.Chart)

	w = serve(router, http.MethodGet, "/widget")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Number of Repos 2")
	assert.Contains(t, w.Body.String(), "height:500px;width:800px")
}

func TestServer_Lookup(t *testing.T) {
	testCases := []struct {
		name          string
		target        string
		expectedCode  int
		expectedError string
		expectedLinks []domain.RepositoryLink
		expectedChart []domain.ChartEntry
	}{
		{
			name:         "with exclusions",
			target:       "/api/v1/users/octocat?exclude=b",
			expectedCode: http.StatusOK,
			expectedLinks: []domain.RepositoryLink{
				{Name: "a", URL: "https://github.com/octocat/a"},
			},
			expectedChart: []domain.ChartEntry{
				{Name: "Go", Value: 1, Percent: 50},
				{Name: "TS", Value: 1, Percent: 50},
			},
		},
		{
			name:          "unknown user",
			target:        "/api/v1/users/ghost",
			expectedCode:  http.StatusNotFound,
			expectedError: "user_not_found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, router := newTestServer(t)
			w := serve(router, http.MethodGet, tc.target)
			require.Equal(t, tc.expectedCode, w.Code)

			if tc.expectedError != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tc.expectedError, resp.Error)
				return
			}
			snap := decodeSnapshot(t, w)
			assert.Equal(t, domain.StatusReady, snap.Status)
			assert.Equal(t, tc.expectedLinks, snap.Repositories)
			assert.Equal(t, tc.expectedChart, snap.Chart)
		})
	}
}

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		err          error
		expectedCode int
		expectedName string
	}{
		{domain.NewProviderError("op", "x", 404, false, errors.New("nf")), http.StatusNotFound, "user_not_found"},
		{domain.NewProviderError("op", "x", 403, true, errors.New("rl")), http.StatusTooManyRequests, "rate_limited"},
		{domain.NewProviderError("op", "x", 500, false, errors.New("ise")), http.StatusBadGateway, "provider_error"},
		{&domain.MalformedDataError{What: "repository"}, http.StatusBadGateway, "malformed_data"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "cancelled"},
		{errors.New("other"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range testCases {
		code, name := errorStatus(tc.err)
		assert.Equal(t, tc.expectedCode, code, tc.err.Error())
		assert.Equal(t, tc.expectedName, name, tc.err.Error())
	}
}
