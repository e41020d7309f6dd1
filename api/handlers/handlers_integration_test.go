// api/handlers/handlers_integration_test.go
package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustrade/campustrade-api/api"
	"github.com/campustrade/campustrade-api/api/handlers"
	"github.com/campustrade/campustrade-api/api/models"
	"github.com/campustrade/campustrade-api/config"
	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/storage"
)

const testPassword = "correct-horse-battery"

// testConfig returns a production-mode config rooted in a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tempDir := t.TempDir()

	cfg := config.Default()
	cfg.Environment = config.EnvProduction
	cfg.Jwt.SecretKey = "test_secret_key_for_integration_tests_1234567890"
	cfg.MetadataDbDir = tempDir
	cfg.MetadataDbFile = "test_metadata.db"
	cfg.FileStorage.UploadPath = filepath.Join(tempDir, "uploads")
	return cfg
}

// setupTestRouter creates a router backed by a fresh SQLite database.
func setupTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.ConnectMetadataDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	router, err := api.SetupRouter(db, cfg, auth.NewMemoryBlacklist())
	require.NoError(t, err)
	return router, db
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func register(t *testing.T, router http.Handler, email string) models.UserResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/register", models.RegisterRequest{
		Username: "student", Email: email, Password: testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[struct {
		User models.UserResponse `json:"user"`
	}](t, rec).User
}

func login(t *testing.T, router http.Handler, email string) models.TokenResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.TokenResponse](t, rec)
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))

	user := register(t, router, "alice@campus.edu")
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.EmailVerified)

	t.Run("Duplicate email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/register", models.RegisterRequest{
			Username: "other", Email: "alice@campus.edu", Password: testPassword,
		}, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Invalid email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/register", models.RegisterRequest{
			Username: "bob", Email: "not-an-email", Password: testPassword,
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/register", `{"email":`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", models.LoginRequest{Email: "alice@campus.edu", Password: "wrong-password"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password.", errorMessage(t, rec))
	})

	t.Run("Unknown email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", models.LoginRequest{Email: "nobody@campus.edu", Password: testPassword}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password.", errorMessage(t, rec))
	})

	t.Run("Success", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", models.LoginRequest{Email: "alice@campus.edu", Password: testPassword}, "")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[models.TokenResponse](t, rec)
		assert.Equal(t, "Login successful", resp.Message)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.EqualValues(t, 3600, resp.ExpiresIn)
		assert.Equal(t, user.ID, resp.User.ID)

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == handlers.AccessTokenCookie {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.Equal(t, resp.AccessToken, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
	})
}

func TestMeRequiresBearerToken(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))
	register(t, router, "carol@campus.edu")
	tokens := login(t, router, "carol@campus.edu")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/me", nil, "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/me", nil, tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.UserResponse](t, rec)
	assert.Equal(t, "carol@campus.edu", me.Email)
}

func TestInactiveUserIsForbidden(t *testing.T) {
	router, db := setupTestRouter(t, testConfig(t))
	user := register(t, router, "dave@campus.edu")
	require.NoError(t, storage.SetUserActive(context.Background(), db, user.ID, false))

	tokens := login(t, router, "dave@campus.edu")
	rec := doJSON(t, router, http.MethodGet, "/api/v1/me", nil, tokens.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutRevokesTokens(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))
	register(t, router, "erin@campus.edu")
	tokens := login(t, router, "erin@campus.edu")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", nil, tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/me", nil, tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication token has been revoked.", errorMessage(t, rec))
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "revoked")

	rec = doJSON(t, router, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))
	register(t, router, "frank@campus.edu")
	tokens := login(t, router, "frank@campus.edu")

	rec := doJSON(t, router, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := decode[models.TokenResponse](t, rec)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	rec = doJSON(t, router, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/me", nil, rotated.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: "unknown"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConcurrentRefreshIssuesOnePair(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))
	register(t, router, "frankie@campus.edu")
	tokens := login(t, router, "frankie@campus.edu")

	body, err := json.Marshal(models.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)

	const workers = 6
	codes := make([]int, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	close(start)
	wg.Wait()

	ok := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusUnauthorized:
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, ok, "a refresh token is exchanged exactly once")
}

func pngUpload(t *testing.T, name string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	var content bytes.Buffer
	require.NoError(t, png.Encode(&content, img))

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func upload(t *testing.T, router http.Handler, token, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFileLifecycle(t *testing.T) {
	router, db := setupTestRouter(t, testConfig(t))
	user := register(t, router, "grace@campus.edu")
	unverified := login(t, router, "grace@campus.edu")

	body, ct := pngUpload(t, "bike.png")
	rec := upload(t, router, unverified.AccessToken, "/api/v1/files", body, ct)
	require.Equal(t, http.StatusForbidden, rec.Code, "unverified users cannot upload")

	// Claims are fixed at issue time; a new login picks up verification.
	require.NoError(t, storage.SetEmailVerified(context.Background(), db, user.ID, true))
	tokens := login(t, router, "grace@campus.edu")

	body, ct = pngUpload(t, "bike.png")
	rec = upload(t, router, tokens.AccessToken, "/api/v1/files?thumbnail=true", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	file := decode[models.FileResponse](t, rec)
	assert.Equal(t, "bike.png", file.OriginalName)
	assert.Equal(t, "image/png", file.ContentType)
	assert.True(t, strings.HasPrefix(file.URL, "/uploads/"), file.URL)
	assert.True(t, strings.HasSuffix(file.ThumbnailURL, "_thumb.jpg"), file.ThumbnailURL)

	t.Run("Served statically", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, file.URL, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = doJSON(t, router, http.MethodGet, file.ThumbnailURL, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Disallowed extension", func(t *testing.T) {
		body, ct := pngUpload(t, "notes.txt")
		rec := upload(t, router, tokens.AccessToken, "/api/v1/files", body, ct)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing file field", func(t *testing.T) {
		rec := upload(t, router, tokens.AccessToken, "/api/v1/files", &bytes.Buffer{}, "multipart/form-data; boundary=x")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("List", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/files?limit=5&sort=size&order=asc", nil, tokens.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[models.FileListResponse](t, rec)
		require.Len(t, list.Files, 1)
		assert.Equal(t, file.ID, list.Files[0].ID)
		assert.Equal(t, 5, list.Limit)

		rec = doJSON(t, router, http.MethodGet, "/api/v1/files?sort=password", nil, tokens.AccessToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/files/"+file.ID, nil, tokens.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodGet, file.URL, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, router, http.MethodDelete, "/api/v1/files/"+file.ID, nil, tokens.AccessToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFilesAreScopedToOwner(t *testing.T) {
	router, db := setupTestRouter(t, testConfig(t))
	owner := register(t, router, "heidi@campus.edu")
	require.NoError(t, storage.SetEmailVerified(context.Background(), db, owner.ID, true))
	register(t, router, "ivan@campus.edu")

	ownerTokens := login(t, router, "heidi@campus.edu")
	otherTokens := login(t, router, "ivan@campus.edu")

	body, ct := pngUpload(t, "desk.png")
	rec := upload(t, router, ownerTokens.AccessToken, "/api/v1/files", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	file := decode[models.FileResponse](t, rec)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/files/"+file.ID, nil, otherTokens.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/files", nil, otherTokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.FileListResponse](t, rec).Files)
}

func TestClientRoutesAndNavigationGuard(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/client-routes", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	routes := decode[struct {
		Routes []struct {
			Path string `json:"path"`
			Name string `json:"name"`
		} `json:"routes"`
	}](t, rec).Routes
	require.Len(t, routes, 6)
	assert.Equal(t, "/goods/:id", routes[5].Path)

	register(t, router, "judy@campus.edu")
	tokens := login(t, router, "judy@campus.edu")

	navigate := func(path, cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: handlers.AccessTokenCookie, Value: cookie})
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Guest route while signed out", func(t *testing.T) {
		rec := navigate("/login", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "LoginView", decode[map[string]any](t, rec)["view"])
	})

	t.Run("Guest route while signed in", func(t *testing.T) {
		rec := navigate("/login", tokens.AccessToken)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("Bearer header counts as signed in", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/login", nil, tokens.AccessToken)
		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("Stale cookie falls back to bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: handlers.AccessTokenCookie, Value: "expired.or.garbage"})
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("Stale cookie alone is signed out", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, navigate("/login", "expired.or.garbage").Code)
	})

	t.Run("Non-guest route while signed in", func(t *testing.T) {
		rec := navigate("/about", tokens.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Params", func(t *testing.T) {
		rec := navigate("/goods/42", "")
		require.Equal(t, http.StatusOK, rec.Code)
		params := decode[struct {
			Params map[string]string `json:"params"`
		}](t, rec).Params
		assert.Equal(t, "42", params["id"])
	})

	t.Run("Unknown path", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, navigate("/nowhere", "").Code)
	})

	t.Run("Revoked token is signed out", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", nil, tokens.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, http.StatusOK, navigate("/login", tokens.AccessToken).Code)
	})
}

func TestCORSPolicies(t *testing.T) {
	preflight := func(router http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("CampusTradeCors", func(t *testing.T) {
		router, _ := setupTestRouter(t, testConfig(t))

		rec := preflight(router, "http://localhost:5173")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "1800", rec.Header().Get("Access-Control-Max-Age"))

		rec = preflight(router, "https://evil.example.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Configured origins replace the defaults", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Cors.AllowedOrigins = []string{"https://market.campus.edu"}
		router, _ := setupTestRouter(t, cfg)

		assert.Equal(t, http.StatusNoContent, preflight(router, "https://market.campus.edu").Code)
		assert.Equal(t, http.StatusForbidden, preflight(router, "http://localhost:3000").Code)
	})

	t.Run("DevelopmentCors", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Environment = config.EnvDevelopment
		router, _ := setupTestRouter(t, cfg)

		rec := preflight(router, "https://anything.example.org")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequireHTTPSMetadata(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jwt.RequireHTTPSMetadata = true
	router, _ := setupTestRouter(t, cfg)
	register(t, router, "ken@campus.edu")
	tokens := login(t, router, "ken@campus.edu")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/me", nil, tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer authentication requires HTTPS.", errorMessage(t, rec))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = doJSON(t, router, http.MethodPost, "/auth/login", models.LoginRequest{Email: "x@campus.edu", Password: "whatever"}, "")
		if i < 10 {
			require.Equal(t, http.StatusUnauthorized, last.Code)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))

	// Refresh is not behind the limiter.
	rec := doJSON(t, router, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPingAndMetrics(t *testing.T) {
	router, _ := setupTestRouter(t, testConfig(t))

	rec := doJSON(t, router, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	doJSON(t, router, http.MethodGet, "/api/v1/me", nil, "garbage")

	rec = doJSON(t, router, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/ping",service="campustrade-api",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `auth_failures_total{reason="malformed"`)
}
