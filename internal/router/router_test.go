package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/database"
	"github.com/blues/cfl/internal/handler"
	"github.com/blues/cfl/internal/logic"
	"github.com/blues/cfl/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	adminAddr       = "0x1111111111111111111111111111111111111111"
	contributorAddr = "0x2222222222222222222222222222222222222222"
)

type testServer struct {
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	capability, created, err := logic.NewCapabilityLogic(db).Bootstrap(adminAddr)
	require.NoError(t, err)
	require.True(t, created)

	return &testServer{
		engine: router.Setup(db, nil, &config.Config{}),
		token:  capability.Token,
	}
}

// do 发送请求，caller和token按需携带
func (s *testServer) do(t *testing.T, method, path, caller, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(handler.CallerHeader, caller)
	}
	if token != "" {
		req.Header.Set(handler.CapabilityHeader, token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *testServer) createCampaign(t *testing.T, goal int64) int64 {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/campaigns", adminAddr, s.token, gin.H{
		"title":         "测试活动",
		"goal_amount":   goal,
		"duration_days": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode(t, w)
	data := resp["data"].(map[string]interface{})
	return int64(data["id"].(float64))
}

func TestSetupReleaseMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	router.Setup(db, nil, &config.Config{Server: config.ServerConfig{Mode: "release"}})
	require.Equal(t, gin.ReleaseMode, gin.Mode())
}

func TestCreateCampaignRequiresCapability(t *testing.T) {
	s := newTestServer(t)

	// 不带Token
	w := s.do(t, http.MethodPost, "/api/v1/campaigns", adminAddr, "", gin.H{
		"title": "未授权", "goal_amount": 1000, "duration_days": 1,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "UNAUTHORIZED", decode(t, w)["code"])

	// 伪造Token
	w = s.do(t, http.MethodPost, "/api/v1/campaigns", adminAddr, "forged", gin.H{
		"title": "未授权", "goal_amount": 1000, "duration_days": 1,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCampaignHTTPLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.createCampaign(t, 1000)

	// 出资
	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/contributions", id), contributorAddr, "", gin.H{"amount": 600})
	require.Equal(t, http.StatusCreated, w.Code)
	receipt := decode(t, w)["data"].(map[string]interface{})
	require.EqualValues(t, 600, receipt["amount"])

	// 零出资被拒绝
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/contributions", id), contributorAddr, "", gin.H{"amount": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "ZERO_CONTRIBUTION", decode(t, w)["code"])

	// 快照与字段投影
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/campaigns/%d", id), "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snapshot := decode(t, w)["data"].(map[string]interface{})
	require.EqualValues(t, 600, snapshot["raisedAmount"])
	require.Equal(t, true, snapshot["active"])

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/campaigns/%d/balance", id), "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	balance := decode(t, w)["data"].(map[string]interface{})
	require.EqualValues(t, 600, balance["balance"])

	// 进行中不能提现
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/withdraw", id), adminAddr, "", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "CAMPAIGN_STILL_ACTIVE", decode(t, w)["code"])

	// 越过目标，活动关闭
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/contributions", id), contributorAddr, "", gin.H{"amount": 500})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/contributions", id), contributorAddr, "", gin.H{"amount": 1})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "CAMPAIGN_CLOSED", decode(t, w)["code"])

	// 创建者提现
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/withdraw", id), adminAddr, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	payout := decode(t, w)["data"].(map[string]interface{})
	require.EqualValues(t, 1100, payout["amount"])

	// 二次提现被拒绝
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/withdraw", id), adminAddr, "", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "NOTHING_TO_WITHDRAW", decode(t, w)["code"])
}

func TestEmergencyCancelEndpoint(t *testing.T) {
	s := newTestServer(t)
	id := s.createCampaign(t, 1000)

	// 取消需要能力凭证
	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/cancel", id), adminAddr, "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/cancel", id), adminAddr, s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	require.Equal(t, false, data["active"])

	// 幂等
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/cancel", id), adminAddr, s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCapabilityTransferEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/capability/transfer", adminAddr, s.token, gin.H{
		"new_holder": contributorAddr,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	newToken := data["token"].(string)
	require.NotEqual(t, s.token, newToken)

	// 旧Token作废
	w = s.do(t, http.MethodPost, "/api/v1/campaigns", adminAddr, s.token, gin.H{
		"title": "旧Token", "goal_amount": 1000, "duration_days": 1,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 新Token生效
	w = s.do(t, http.MethodPost, "/api/v1/campaigns", contributorAddr, newToken, gin.H{
		"title": "新Token", "goal_amount": 1000, "duration_days": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestContributorReceiptsEndpoint(t *testing.T) {
	s := newTestServer(t)
	id := s.createCampaign(t, 10000)

	for i := 0; i < 3; i++ {
		w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/contributions", id), contributorAddr, "", gin.H{"amount": 100})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/contributors/%s/receipts", contributorAddr), "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	receipts := resp["receipts"].([]interface{})
	require.Len(t, receipts, 3)
}
