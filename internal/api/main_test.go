package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"svgshare/internal/auth"
	"svgshare/internal/config"
	"svgshare/internal/database"
	"svgshare/internal/models"
	"svgshare/internal/ratelimit"
	"svgshare/internal/storage"
	"svgshare/internal/websocket"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "api_test_secret"
	testMaxBytes = 2 * 1024 * 1024
)

type fakeProvider struct {
	profile  *auth.Profile
	err      error
	lastCode string
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://github.example/login/oauth/authorize?client_id=test&state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*auth.Profile, error) {
	p.lastCode = code
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

type testEnv struct {
	server   *Server
	handler  http.Handler
	store    *memStore
	storage  *storage.LocalStorage
	blobDir  string
	provider *fakeProvider
	hub      *websocket.Hub
	cfg      *config.Config
}

type envOption func(*config.Config, *Deps)

func withLimiter(l ratelimit.Limiter) envOption {
	return func(_ *config.Config, d *Deps) { d.Limiter = l }
}

func withConfig(fn func(*config.Config)) envOption {
	return func(c *config.Config, _ *Deps) { fn(c) }
}

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			Secret:     testSecret,
			TTL:        time.Hour,
			CookieName: "session",
		},
		Upload: config.UploadConfig{
			MaxBytes:     testMaxBytes,
			DefaultQuota: models.DefaultStorageLimit,
		},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testAssets = fstest.MapFS{
	"index.html":      {Data: []byte("<html>index</html>")},
	"dashboard.html":  {Data: []byte("<html>dashboard</html>")},
	"admin.html":      {Data: []byte("<html>admin</html>")},
	"share.html":      {Data: []byte("<html>share</html>")},
	"js/dashboard.js": {Data: []byte("console.log('dashboard')")},
	"css/style.css":   {Data: []byte("body{}")},
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	blobDir := t.TempDir()
	ls, err := storage.NewLocalStorage(blobDir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := quietLogger()
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	cfg := testConfig()
	store := newMemStore()
	provider := &fakeProvider{}
	deps := Deps{
		Config:   cfg,
		Store:    store,
		Storage:  ls,
		Provider: provider,
		Hub:      hub,
		Logger:   logger,
		Assets:   testAssets,
	}
	for _, opt := range opts {
		opt(cfg, &deps)
	}

	srv := NewServer(deps)
	return &testEnv{
		server:   srv,
		handler:  srv.Routes(),
		store:    store,
		storage:  ls,
		blobDir:  blobDir,
		provider: provider,
		hub:      hub,
		cfg:      cfg,
	}
}

func (e *testEnv) createUser(t *testing.T, username, role, status string) *models.User {
	t.Helper()
	user, err := e.store.CreateUser(context.Background(), database.CreateUserParams{
		GithubID: "gh-" + username,
		Username: username,
		Role:     role,
		Status:   status,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) sessionCookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateSessionToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: "session", Value: token}
}

// do sends req through the full router, as user when user is not nil, and
// waits for background work the request started.
func (e *testEnv) do(t *testing.T, req *http.Request, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	if user != nil {
		req.AddCookie(e.sessionCookie(t, user.ID))
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	e.server.Wait()
	return rr
}

// svgOfSize builds a valid SVG document of exactly size bytes.
func svgOfSize(t *testing.T, width, height, size int) []byte {
	t.Helper()
	head := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, width, height)
	tail := `</svg>`
	pad := size - len(head) - len(tail) - len("<!---->")
	require.GreaterOrEqual(t, pad, 0)
	return []byte(head + "<!--" + strings.Repeat("x", pad) + "-->" + tail)
}

func multipartFile(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func uploadRequest(t *testing.T, method, target, filename string, content []byte) *http.Request {
	t.Helper()
	body, contentType := multipartFile(t, filename, "image/svg+xml", content)
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
