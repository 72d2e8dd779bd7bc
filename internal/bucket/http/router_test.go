package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	httpapi "github.com/anurag24-26/openup/internal/bucket/http"
	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/internal/bucket/store"
	"github.com/anurag24-26/openup/internal/bucket/store/drivers/sqlite"
	"github.com/anurag24-26/openup/pkg/cryptox"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type uploaderFunc func(ctx context.Context, buf []byte, mimeType string) (string, error)

func (f uploaderFunc) Ingest(ctx context.Context, buf []byte, mimeType string) (string, error) {
	return f(ctx, buf, mimeType)
}

type testServer struct {
	srv   *httptest.Server
	store store.Store
}

func newTestServer(t *testing.T, uploader uploaderFunc) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(pemKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierEdDSA(signer.PublicKey(), "openup-test")

	sessionService := &service.SessionService{
		Store:    st,
		Signer:   signer,
		Verifier: verifier,
		Issuer:   "openup-test",
	}
	itemService := &service.ItemService{Store: st}
	if uploader != nil {
		itemService.Uploader = uploader
	}

	router := httpapi.NewRouter(signer, verifier, "test", st, slog.New(slog.DiscardHandler))
	router.SessionService = sessionService
	router.ItemService = itemService
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, store: st}
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndLogin creates a user and returns its session token.
func (ts *testServer) registerAndLogin(t *testing.T, name, password string) string {
	t.Helper()

	resp := ts.postJSON(t, "/v1/auth/register", map[string]string{
		"name": name, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ts.postJSON(t, "/v1/auth/login", map[string]string{
		"name": name, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := decodeBody[httpapi.SessionResponse](t, resp)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestRegisterLoginMeFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	resp := ts.postJSON(t, "/v1/auth/register", map[string]string{
		"name": "ana", "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decodeBody[httpapi.UserResponse](t, resp)
	require.Equal(t, "ana", user.Name)
	require.NotEmpty(t, user.ID)

	resp = ts.postJSON(t, "/v1/auth/login", map[string]string{
		"name": "ana", "password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Login sets the session cookie alongside the body token.
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == httpx.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")
	require.True(t, cookie.HttpOnly)

	session := decodeBody[httpapi.SessionResponse](t, resp)
	require.Equal(t, user.ID, session.User.ID)

	t.Run("me with bearer token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/v1/auth/me", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+session.Token)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		me := decodeBody[httpapi.UserResponse](t, resp)
		require.Equal(t, user.ID, me.ID)
	})

	t.Run("me with cookie", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/v1/auth/me", nil)
		require.NoError(t, err)
		req.AddCookie(cookie)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("me without session", func(t *testing.T) {
		resp, err := http.Get(ts.srv.URL + "/v1/auth/me")
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestRegisterFailures(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	resp := ts.postJSON(t, "/v1/auth/register", map[string]string{
		"name": "ana", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("duplicate name", func(t *testing.T) {
		resp := ts.postJSON(t, "/v1/auth/register", map[string]string{
			"name": "ana", "password": "other",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		body := decodeBody[httpapi.ErrorResponse](t, resp)
		require.Equal(t, "duplicate_name", body.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := ts.postJSON(t, "/v1/auth/register", map[string]string{"name": "bob"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	resp := ts.postJSON(t, "/v1/auth/register", map[string]string{
		"name": "ana", "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("unknown user", func(t *testing.T) {
		resp := ts.postJSON(t, "/v1/auth/login", map[string]string{
			"name": "nobody", "password": "pw",
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := ts.postJSON(t, "/v1/auth/login", map[string]string{
			"name": "ana", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestLoginRateLimitBucketsPerName(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	for _, name := range []string{"ana", "bob"} {
		resp := ts.postJSON(t, "/v1/auth/register", map[string]string{
			"name": name, "password": "pw",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Burn ana's login bucket with failed attempts; the limiter keys on
	// IP plus the name from the JSON body, not IP alone.
	for range 5 {
		resp := ts.postJSON(t, "/v1/auth/login", map[string]string{
			"name": "ana", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	resp := ts.postJSON(t, "/v1/auth/login", map[string]string{
		"name": "ana", "password": "wrong",
	})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()

	// Same IP, different name: bob keeps his own bucket.
	resp = ts.postJSON(t, "/v1/auth/login", map[string]string{
		"name": "bob", "password": "pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutClearsCookie(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.srv.URL+"/v1/auth/logout", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == httpx.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared, "logout must expire the session cookie")
}

// multipartItem builds a multipart form body for an item submission.
func multipartItem(t *testing.T, fields map[string]string, image []byte, imageMIME string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="pic"`)
		hdr.Set("Content-Type", imageMIME)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (ts *testServer) postItem(t *testing.T, token string, fields map[string]string, image []byte, imageMIME string) *http.Response {
	t.Helper()

	body, contentType := multipartItem(t, fields, image, imageMIME)
	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/v1/items", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestCreateItem(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(ctx context.Context, buf []byte, mimeType string) (string, error) {
		return "https://cdn/x.jpg", nil
	})
	token := ts.registerAndLogin(t, "ana", "pw")

	t.Run("with image", func(t *testing.T) {
		resp := ts.postItem(t, token, map[string]string{
			"text":        "Visit Kyoto",
			"description": "cherry blossoms",
		}, []byte{0xff, 0xd8, 0xff}, "image/jpeg")
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		item := decodeBody[httpapi.ItemResponse](t, resp)
		require.Equal(t, "Visit Kyoto", item.Text)
		require.Equal(t, "cherry blossoms", item.Description)
		require.Equal(t, "https://cdn/x.jpg", item.Image)
		require.Equal(t, "ana", item.CreatedBy)
		require.False(t, item.Completed)
	})

	t.Run("without image", func(t *testing.T) {
		resp := ts.postItem(t, token, map[string]string{"text": "Learn the cello"}, nil, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		item := decodeBody[httpapi.ItemResponse](t, resp)
		require.Empty(t, item.Image)
	})

	t.Run("explicit owner field", func(t *testing.T) {
		resp := ts.postItem(t, token, map[string]string{
			"text": "Sail", "userId": "ana",
		}, nil, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("missing text", func(t *testing.T) {
		resp := ts.postItem(t, token, map[string]string{"description": "only"}, nil, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("unknown owner", func(t *testing.T) {
		resp := ts.postItem(t, token, map[string]string{
			"text": "x", "userId": "nobody",
		}, nil, "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("without session", func(t *testing.T) {
		resp := ts.postItem(t, "", map[string]string{"text": "x"}, nil, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestCreateItemUploadFailure(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(ctx context.Context, buf []byte, mimeType string) (string, error) {
		return "", fmt.Errorf("remote store down")
	})
	token := ts.registerAndLogin(t, "ana", "pw")

	resp := ts.postItem(t, token, map[string]string{"text": "Skydive"},
		[]byte{1, 2, 3}, "image/png")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody[httpapi.ErrorResponse](t, resp)
	require.Equal(t, "upload_failed", body.Error)

	// No record leaked through the failed submission.
	listResp, err := http.Get(ts.srv.URL + "/v1/items")
	require.NoError(t, err)
	list := decodeBody[httpapi.ItemListResponse](t, listResp)
	require.Empty(t, list.Items)
}

func TestListItemsNewestFirst(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	token := ts.registerAndLogin(t, "ana", "pw")

	first := ts.postItem(t, token, map[string]string{"text": "first"}, nil, "")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	firstItem := decodeBody[httpapi.ItemResponse](t, first)

	second := ts.postItem(t, token, map[string]string{"text": "second"}, nil, "")
	require.Equal(t, http.StatusCreated, second.StatusCode)
	secondItem := decodeBody[httpapi.ItemResponse](t, second)

	resp, err := http.Get(ts.srv.URL + "/v1/items")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeBody[httpapi.ItemListResponse](t, resp)
	require.Len(t, list.Items, 2)
	require.Equal(t, secondItem.ID, list.Items[0].ID)
	require.Equal(t, firstItem.ID, list.Items[1].ID)
}

func TestItemsGroupedByUser(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	anaToken := ts.registerAndLogin(t, "ana", "pw")
	_ = ts.registerAndLogin(t, "bob", "pw")

	resp := ts.postItem(t, anaToken, map[string]string{"text": "Visit Kyoto"}, nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	groupResp, err := http.Get(ts.srv.URL + "/v1/items/by-user")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, groupResp.StatusCode)

	grouped := decodeBody[httpapi.GroupedItemsResponse](t, groupResp)
	require.Len(t, grouped.UserTasks, 2)

	require.Equal(t, "ana", grouped.UserTasks[0].User.Name)
	require.Len(t, grouped.UserTasks[0].Tasks, 1)
	require.Equal(t, "Visit Kyoto", grouped.UserTasks[0].Tasks[0].Text)

	require.Equal(t, "bob", grouped.UserTasks[1].User.Name)
	require.NotNil(t, grouped.UserTasks[1].Tasks)
	require.Empty(t, grouped.UserTasks[1].Tasks)
}

func TestCompleteItem(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	token := ts.registerAndLogin(t, "ana", "pw")

	resp := ts.postItem(t, token, map[string]string{"text": "Run a marathon"}, nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decodeBody[httpapi.ItemResponse](t, resp)

	patch := func(id string) *http.Response {
		req, err := http.NewRequest(http.MethodPatch,
			ts.srv.URL+"/v1/items/"+id+"/complete", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	// Completion requires no session; any caller may flip any item.
	first := patch(item.ID)
	require.Equal(t, http.StatusOK, first.StatusCode)
	done := decodeBody[httpapi.ItemResponse](t, first)
	require.True(t, done.Completed)

	// Idempotent second completion.
	second := patch(item.ID)
	require.Equal(t, http.StatusOK, second.StatusCode)
	again := decodeBody[httpapi.ItemResponse](t, second)
	require.True(t, again.Completed)
	require.Equal(t, done.UpdatedAt.Unix(), again.UpdatedAt.Unix())

	t.Run("unknown item", func(t *testing.T) {
		resp := patch("01ARZ3NDEKTSV4RRFFQ69G5FAV")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestHealthProbes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	t.Run("livez", func(t *testing.T) {
		resp, err := http.Get(ts.srv.URL + "/livez")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[httpapi.HealthResponse](t, resp)
		require.Equal(t, "ok", body.Status)
		require.Equal(t, "test", body.Version)
	})

	t.Run("readyz", func(t *testing.T) {
		resp, err := http.Get(ts.srv.URL + "/readyz")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[httpapi.HealthResponse](t, resp)
		require.Equal(t, "ok", body.Status)
		require.NotNil(t, body.Checks)
		require.Equal(t, "ok", body.Checks.Database)
		require.Equal(t, "ok", body.Checks.Signer)
	})
}
