package handler_test

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/lexkit/lexdoc/internal/config"
	"github.com/lexkit/lexdoc/internal/filestore"
	"github.com/lexkit/lexdoc/internal/handler"
	"github.com/lexkit/lexdoc/internal/middleware"
	"github.com/lexkit/lexdoc/internal/repo"
	"github.com/lexkit/lexdoc/internal/service"
	"github.com/lexkit/lexdoc/internal/summarizer"
	"github.com/lexkit/lexdoc/test/testutil"
)

func setupRouter(t *testing.T) (http.Handler, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)
	userRepo := repo.NewUserRepo(db)
	docRepo := repo.NewDocumentRepo(db)
	summaryRepo := repo.NewDocumentSummaryRepo(db)
	uploadRepo := repo.NewUploadRepo(db)

	jwtSecret := []byte("test-secret")
	smart := summarizer.New(summarizer.DefaultConfig())
	summaryService := service.NewSummaryService(smart, nil, "", 0, service.EngineSmart, summarizer.TierMedium)
	authService := service.NewAuthService(userRepo, jwtSecret, time.Hour)
	documentService := service.NewDocumentService(docRepo, summaryRepo, summaryService)

	tmpDir, err := os.MkdirTemp("", "lexdoc-upload-*")
	require.NoError(t, err)

	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{
			"dir": tmpDir,
		},
	})
	require.NoError(t, err)
	uploadService := service.NewUploadService(uploadRepo, documentService, store, 10*1024*1024)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Documents: handler.NewDocumentHandler(documentService),
		Uploads:   handler.NewUploadHandler(uploadService),
		NLP:       handler.NewNLPHandler(documentService, summaryService),
		Files:     handler.NewFileHandler(store),
		Health:    handler.NewHealthHandler(db),
		JWTSecret: jwtSecret,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return engine, func() {
		cleanup()
		_ = os.RemoveAll(tmpDir)
	}
}

func uniqueEmail(t *testing.T, prefix string) string {
	t.Helper()
	buf := make([]byte, 6)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return prefix + "-" + hex.EncodeToString(buf) + "@example.com"
}

type apiResult struct {
	Code int                    `json:"code"`
	Msg  string                 `json:"msg"`
	Data map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResult) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	var result apiResult
	if resp.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	}
	return resp, result
}

func registerAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	body := map[string]string{"email": email, "password": "secret"}
	resp, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusOK, resp.Code)

	resp, result := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", body)
	require.Equal(t, http.StatusOK, resp.Code)
	token, _ := result.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}
