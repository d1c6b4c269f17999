package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/util"
	"study_rewards_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Retryable bool            `json:"retryable"`
	Data      json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	app *App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDemo(db))

	cfg := &config.Config{Rewards: config.DefaultRewards()}
	cfg.JWT.Secret = testSecret
	cfg.RateLimit.MaxRequests = 1000
	cfg.RateLimit.WindowMinutes = 1

	app, err := New(cfg, db, nil, util.NewSeededRandom(7))
	require.NoError(t, err)
	return &testServer{t: t, app: app}
}

func (s *testServer) do(method, path string, userID uint, role model.UserRole, body interface{}, headers ...string) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := util.GenerateJWT(userID, role, testSecret, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthAndAuth(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/api/health", 0, "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/points", 0, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSwaggerDocServed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/", doc.BasePath)
	assert.Contains(t, doc.Paths, "/api/lottery/draw")
	assert.Contains(t, doc.Paths, "/api/admin/points/grant")
}

func TestLoginBonusOncePerDay(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/login-bonus", 5, model.Student, nil)
	require.Equal(t, http.StatusOK, code)
	first := decode[struct {
		Awarded bool  `json:"awarded"`
		Streak  int   `json:"streak"`
		Balance int64 `json:"balance"`
	}](t, env.Data)
	assert.True(t, first.Awarded)
	assert.Equal(t, 1, first.Streak)
	assert.Equal(t, int64(10), first.Balance)

	code, env = s.do(http.MethodPost, "/api/login-bonus", 5, model.Student, nil)
	require.Equal(t, http.StatusOK, code)
	second := decode[struct {
		Awarded bool `json:"awarded"`
	}](t, env.Data)
	assert.False(t, second.Awarded)

	code, env = s.do(http.MethodGet, "/api/login-bonus", 5, model.Student, nil)
	require.Equal(t, http.StatusOK, code)
	status := decode[struct {
		ClaimedToday bool `json:"claimedToday"`
	}](t, env.Data)
	assert.True(t, status.ClaimedToday)
}

func TestDailyMissionFlow(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/daily-mission", 9, model.Student, nil)
	require.Equal(t, http.StatusOK, code)
	mission := decode[struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}](t, env.Data)
	require.NotZero(t, mission.ID)
	assert.Equal(t, "active", mission.Status)

	code, _ = s.do(http.MethodPost, "/api/daily-mission/complete", 9, model.Student, gin.H{"missionId": mission.ID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodPost, "/api/daily-mission/complete", 9, model.Student,
		gin.H{"missionId": mission.ID, "elapsedSeconds": 42})
	require.Equal(t, http.StatusOK, code)
	done := decode[struct {
		Completed    bool  `json:"completed"`
		RewardPoints int64 `json:"rewardPoints"`
	}](t, env.Data)
	assert.True(t, done.Completed)
	assert.Equal(t, int64(30), done.RewardPoints)

	code, _ = s.do(http.MethodPost, "/api/daily-mission/complete", 10, model.Student,
		gin.H{"missionId": mission.ID, "elapsedSeconds": 42})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestQuestSubmitRejectsNegativeAnswer(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodPost, "/api/quests/1/submit", 3, model.Student,
		map[string]interface{}{"answers": map[string]int{"1": -1}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/quests/999/submit", 3, model.Student,
		map[string]interface{}{"answers": map[string]int{"1": 0}})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLotteryDrawOverHTTP(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/lottery/draw", 7, model.Student, nil)
	require.Equal(t, http.StatusPaymentRequired, code)
	short := decode[struct {
		Success          bool  `json:"success"`
		RemainingBalance int64 `json:"remainingBalance"`
	}](t, env.Data)
	assert.False(t, short.Success)
	assert.Equal(t, int64(0), short.RemainingBalance)

	// 学生不能调账
	grant := gin.H{"userId": 7, "delta": 120, "idempotencyKey": "seed-7"}
	code, _ = s.do(http.MethodPost, "/api/admin/points/grant", 7, model.Student, grant)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/admin/points/grant", 1, model.Admin, grant)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPost, "/api/lottery/draw", 7, model.Student, nil, "Idempotency-Key", "draw-1")
	require.Equal(t, http.StatusOK, code)
	won := decode[struct {
		Success          bool   `json:"success"`
		RemainingBalance int64  `json:"remainingBalance"`
		DrawID           string `json:"drawId"`
	}](t, env.Data)
	assert.True(t, won.Success)
	assert.Equal(t, int64(70), won.RemainingBalance)

	code, env = s.do(http.MethodPost, "/api/lottery/draw", 7, model.Student, nil, "Idempotency-Key", "draw-1")
	require.Equal(t, http.StatusOK, code)
	replay := decode[struct {
		DrawID   string `json:"drawId"`
		Replayed bool   `json:"replayed"`
	}](t, env.Data)
	assert.True(t, replay.Replayed)
	assert.Equal(t, won.DrawID, replay.DrawID)

	code, env = s.do(http.MethodGet, "/api/points", 7, model.Student, nil)
	require.Equal(t, http.StatusOK, code)
	summary := decode[struct {
		Balance int64 `json:"balance"`
	}](t, env.Data)
	assert.Equal(t, int64(70), summary.Balance)
}

func TestAdminPrizeUpdate(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodPut, "/api/lottery/prizes/1", 2, model.Teacher, gin.H{"remainingStock": 0})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPut, "/api/lottery/prizes/1", 1, model.Admin, gin.H{"remainingStock": 9999})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := s.do(http.MethodPut, "/api/lottery/prizes/1", 1, model.Admin, gin.H{"remainingStock": 3})
	require.Equal(t, http.StatusOK, code)
	prize := decode[struct {
		RemainingStock int `json:"remainingStock"`
	}](t, env.Data)
	assert.Equal(t, 3, prize.RemainingStock)
}

func TestPolicyReloadCallback(t *testing.T) {
	s := newTestServer(t)

	next := *s.app.Config
	next.Rewards.LotteryCost = 80
	for _, cb := range s.app.configCallbacks {
		cb(&next)
	}
	assert.Equal(t, int64(80), s.app.Policy.Snapshot().LotteryCost)

	bad := next
	bad.Rewards.LotteryCost = 0
	for _, cb := range s.app.configCallbacks {
		cb(&bad)
	}
	assert.Equal(t, int64(80), s.app.Policy.Snapshot().LotteryCost)
}
