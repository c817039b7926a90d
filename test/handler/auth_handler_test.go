package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexkit/lexdoc/internal/pkg/errcode"
)

func TestAuthHandlers(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	email := uniqueEmail(t, "auth")
	body := map[string]string{"email": email, "password": "secret"}
	resp, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusOK, resp.Code)

	// duplicate registration is rejected
	resp, result := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, errcode.ErrConflict, result.Code)

	resp, result = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", body)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 0, result.Code)
	token, _ := result.Data["token"].(string)
	require.NotEmpty(t, token)

	wrong := map[string]string{"email": email, "password": "wrong"}
	resp, result = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", wrong)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, errcode.ErrUnauthorized, result.Code)
}
