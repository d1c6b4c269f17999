package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/x", append(handlers, func(c *gin.Context) {
		util.Success(c, gin.H{"user": util.GetUserFromContext(c)})
	})...)
	return r
}

func bearer(t *testing.T, userID uint, role model.UserRole) string {
	t.Helper()
	token, err := util.GenerateJWT(userID, role, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer not-a-token").Code)
	assert.Equal(t, http.StatusOK, get(r, bearer(t, 1, model.Student)).Code)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret), RoleMiddleware(model.Admin))

	assert.Equal(t, http.StatusForbidden, get(r, bearer(t, 1, model.Student)).Code)
	assert.Equal(t, http.StatusForbidden, get(r, bearer(t, 1, model.Teacher)).Code)
	assert.Equal(t, http.StatusOK, get(r, bearer(t, 2, model.Admin)).Code)
}

func TestPolicyMiddlewarePinsSnapshot(t *testing.T) {
	store := config.NewPolicyStore(config.DefaultRewards())

	var seen int64
	r := gin.New()
	r.GET("/x", PolicyMiddleware(store), func(c *gin.Context) {
		next := config.DefaultRewards()
		next.LotteryCost = 99
		require.NoError(t, store.Update(next))
		seen = config.SnapshotFor(c.Request.Context(), store).LotteryCost
		c.Status(http.StatusNoContent)
	})

	get(r, "")
	assert.Equal(t, int64(50), seen)
	assert.Equal(t, int64(99), store.Snapshot().LotteryCost)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	w := get(r, "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
