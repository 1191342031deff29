package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"lusionbeatz-backend/database"
	"lusionbeatz-backend/middleware"
	"lusionbeatz-backend/models"
	"lusionbeatz-backend/realtime"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_ENV", "dev")
	uploads := t.TempDir()
	t.Setenv("UPLOAD_DIR", uploads)
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "loop.wav"), []byte("RIFF"), 0o644))
	require.NoError(t, database.Connect(filepath.Join(t.TempDir(), "routes.db")))
	defer database.Close()

	user := models.User{Name: "u", Email: "u@test.com", Password: "x", Verified: true}
	require.NoError(t, database.DB.Create(&user).Error)
	token, err := middleware.IssueToken(user.ID)
	require.NoError(t, err)

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Stop()
	r := Setup(zap.NewNop(), hub)

	assert.Equal(t, http.StatusOK, serve(r, "GET", "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/uploads/loop.wav", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/api/samples", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/api/checkout/config", "").Code)

	w := serve(r, "GET", "/api/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(r, "GET", "/elsewhere", "").Code)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/api/cart", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/api/cart", token).Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/api/samples/my-uploads", token).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "GET", "/api/admin/live", token).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "GET", "/api/admin/stats", token).Code)
}
