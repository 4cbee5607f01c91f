package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wordbook/internal/config"
	"wordbook/internal/domain"
	"wordbook/internal/proxy"
	"wordbook/internal/rest"
	"wordbook/internal/service"
	"wordbook/internal/session"
	"wordbook/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, authURL string) (http.Handler, *testutil.MockWordRepository) {
	t.Helper()

	repo := new(testutil.MockWordRepository)
	api := rest.NewAPI(service.NewWordService(repo, zap.NewNop()), zap.NewNop())

	var authProxy http.Handler
	if authURL != "" {
		var err error
		authProxy, err = proxy.New(authURL, zap.NewNop())
		require.NoError(t, err)
	}
	return newRouter(api, authProxy, zap.NewNop()), repo
}

func TestRouter_Health(t *testing.T) {
	router, repo := newTestRouter(t, "")
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	repo.On("Now", mock.Anything).Return(now, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		OK  bool      `json:"ok"`
		Now time.Time `json:"now"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.True(t, now.Equal(body.Now))
}

func TestRouter_Preflight(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/vocab", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), session.EmailHeader)
}

func TestRouter_Proxy(t *testing.T) {
	var gotPath, gotEmail string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotEmail = r.Header.Get(session.EmailHeader)
		_, _ = w.Write([]byte(`{"token":"t"}`))
	}))
	defer upstream.Close()

	router, repo := newTestRouter(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
	req.Header.Set(session.EmailHeader, "a@b.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/auth/login", gotPath)
	assert.Equal(t, "a@b.com", gotEmail)
	repo.AssertNotCalled(t, "Now", mock.Anything)
}

func TestRouter_NotFoundRecord(t *testing.T) {
	router, repo := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/vocab/not-a-uuid", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestResolvePassword(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		env      string
		expected string
		wantErr  bool
	}{
		{name: "flag wins", flag: "from-flag", env: "from-env", expected: "from-flag"},
		{name: "env fallback", env: "from-env", expected: "from-env"},
		{name: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(passwordEnv, tt.env)

			password, err := resolvePassword(tt.flag)
			if tt.wantErr {
				assert.ErrorIs(t, err, errNoPassword)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, password)
		})
	}
}

func TestOpenSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	cfg = &config.Config{SessionFile: path}
	t.Cleanup(func() { cfg = nil })

	sess, err := openSession()
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn())

	require.NoError(t, session.NewFileStorage(path).Save(session.Credentials{Token: "tok", Email: "a@b.com"}))

	sess, err = openSession()
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", sess.Email())
	assert.Equal(t, "tok", sess.Token())
}

func TestPrintWords(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	due := now.Add(4 * 24 * time.Hour)

	words := []domain.Word{
		{Word: "cat", Meaning: "고양이", Tags: []string{"pets", "animals"}, Familiarity: 3, ReviewDue: &due},
		{Word: "run", Meaning: "달리다", Tags: []string{}},
	}

	var buf bytes.Buffer
	require.NoError(t, printWords(&buf, words, now))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "WORD"))
	assert.Contains(t, lines[1], "pets,animals")
	assert.Contains(t, lines[1], "19 Jun 2024")
	assert.True(t, strings.HasSuffix(lines[2], "now"))
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			l, err := newLogger(level)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}

	_, err := newLogger("loud")
	assert.Error(t, err)
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	assert.Equal(t, "text", colorize(colorRed, "text"))

	noColor = false
	assert.Equal(t, colorRed+"text"+colorReset, colorize(colorRed, "text"))
}
