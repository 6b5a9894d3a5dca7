package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"svgshare/internal/models"

	"github.com/stretchr/testify/require"
)

func shareFile(t *testing.T, env *testEnv, user *models.User, fileID int64, body string, wantStatus int) models.Share {
	t.Helper()
	rr := env.do(t, jsonRequest(http.MethodPost, fmt.Sprintf("/api/files/%d/share", fileID), body), user)
	require.Equal(t, wantStatus, rr.Code, rr.Body.String())

	var share models.Share
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &share))
	return share
}

func TestShareFile_CreateThenToggle(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)
	file := uploadFile(t, env, user, "a.svg", svgOfSize(t, 1, 1, 300))

	created := shareFile(t, env, user, file.ID, "", http.StatusCreated)
	require.True(t, created.IsEnabled)
	require.Len(t, created.ShareID, shareIDLength)

	toggled := shareFile(t, env, user, file.ID, "", http.StatusOK)
	require.Equal(t, created.ShareID, toggled.ShareID)
	require.False(t, toggled.IsEnabled)

	toggled = shareFile(t, env, user, file.ID, "", http.StatusOK)
	require.Equal(t, created.ShareID, toggled.ShareID)
	require.True(t, toggled.IsEnabled)
}

func TestShareFile_DistinctIDsPerFile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)

	seen := make(map[string]bool)
	for i := range 5 {
		file := uploadFile(t, env, user, fmt.Sprintf("f%d.svg", i), svgOfSize(t, 1, 1, 300))
		share := shareFile(t, env, user, file.ID, "", http.StatusCreated)
		require.Len(t, share.ShareID, shareIDLength)
		require.False(t, seen[share.ShareID], "share id reused: %s", share.ShareID)
		seen[share.ShareID] = true
	}
}

func TestShareFile_ExplicitEnable(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)
	file := uploadFile(t, env, user, "a.svg", svgOfSize(t, 1, 1, 300))

	share := shareFile(t, env, user, file.ID, `{"enable":true}`, http.StatusCreated)
	again := shareFile(t, env, user, file.ID, `{"enable":true}`, http.StatusOK)
	require.Equal(t, share.ShareID, again.ShareID)
	require.True(t, again.IsEnabled)

	disabled := shareFile(t, env, user, file.ID, `{"enable":false}`, http.StatusOK)
	require.Equal(t, share.ShareID, disabled.ShareID)
	require.False(t, disabled.IsEnabled)

	// Wyłączony link znika z obu publicznych tras
	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/s/"+share.ShareID, nil), nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Not Found or Disabled", strings.TrimSpace(rr.Body.String()))

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/raw/"+share.ShareID, nil), nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestShareFile_CreateDisabled(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)
	file := uploadFile(t, env, user, "a.svg", svgOfSize(t, 1, 1, 300))

	share := shareFile(t, env, user, file.ID, `{"enable":false}`, http.StatusCreated)
	require.False(t, share.IsEnabled)

	rr := env.do(t, jsonRequest(http.MethodPost, fmt.Sprintf("/api/files/%d/share", file.ID), `{"enable":`), user)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublicShare_MetadataAndRaw(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)
	content := svgOfSize(t, 64, 32, 500)
	file := uploadFile(t, env, user, "logo.svg", content)
	share := shareFile(t, env, user, file.ID, "", http.StatusCreated)

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/s/"+share.ShareID, nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "storage_key")
	require.NotContains(t, rr.Body.String(), "user_id")

	var public models.PublicShare
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &public))
	require.Equal(t, share.ShareID, public.ShareID)
	require.Equal(t, "logo.svg", public.Filename)
	require.Equal(t, "alice", public.Owner)
	require.Equal(t, 64, public.Width)
	require.Equal(t, 32, public.Height)
	require.EqualValues(t, 500, public.Size)

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/raw/"+share.ShareID, nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, content, rr.Body.Bytes())
	require.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	require.Equal(t, blobCSP, rr.Header().Get("Content-Security-Policy"))
	require.Contains(t, rr.Header().Get("Content-Disposition"), "logo.svg")
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/raw/"+share.ShareID, nil)
	req.Header.Set("If-None-Match", etag)
	rr = env.do(t, req, nil)
	require.Equal(t, http.StatusNotModified, rr.Code)

	// Każde pobranie bloba liczy się jako wizyta, także 304
	require.EqualValues(t, 2, env.store.share(file.ID).VisitCount)
}

func TestPublicShare_UnknownToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/s/does-not-exist", "/raw/does-not-exist"} {
		rr := env.do(t, httptest.NewRequest(http.MethodGet, path, nil), nil)
		require.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestPublicShare_GoneAfterDelete(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)
	file := uploadFile(t, env, user, "a.svg", svgOfSize(t, 1, 1, 300))
	share := shareFile(t, env, user, file.ID, "", http.StatusCreated)

	rr := env.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/files/%d", file.ID), nil), user)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/raw/"+share.ShareID, nil), nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
