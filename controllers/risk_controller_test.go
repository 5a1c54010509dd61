package controllers

import (
	"MindwellGo/models"
	"MindwellGo/services"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRiskRouter(t *testing.T, db *gorm.DB, model *fakeModel) *gin.Engine {
	t.Helper()
	riskService := services.NewRiskService(db, model)
	capsuleService := services.NewCapsuleService(db)
	throttle := services.NewAssessmentThrottle(services.NewMemoryLastRunStore())
	controller := NewRiskController(riskService, capsuleService, throttle)

	r := gin.New()
	r.Use(testAuth("user-1"))
	r.POST("/api/v1/risk/assess", controller.Assess)
	r.GET("/api/v1/risk/alerts/latest", controller.LatestAlert)
	r.GET("/api/v1/risk/alerts", controller.ListAlerts)
	return r
}

func postAssess(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/assess", nil)
	r.ServeHTTP(w, req)
	return w
}

// 高风险评估产生告警并解锁激励胶囊
func TestAssessHighRiskUnlocksCapsule(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Create(&models.MoodEntry{
			ID:           uuid.New().String(),
			MoodLabel:    "Sad",
			Intensity:    5,
			RecordDate:   now.AddDate(0, 0, -i),
			UserID:       "user-1",
			LastModified: now,
		}).Error)
	}
	capsule := models.TimeCapsule{
		ID:             uuid.New().String(),
		UserID:         "user-1",
		Title:          "给未来的自己",
		Content:        "你可以的",
		IsMotivational: true,
		UnlockDate:     models.MotivationalUnlockDate,
		CreatedAt:      now,
	}
	require.NoError(t, db.Create(&capsule).Error)

	model := &fakeModel{
		content: `{"risk_level":"high","analysis_summary":"持续的强烈低落情绪。","recommendations":["建议一","建议二","建议三"]}`,
	}
	r := setupRiskRouter(t, db, model)

	w := postAssess(r)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Result services.RiskAnalysisResult `json:"result"`
		Alert  models.RiskAlert            `json:"alert"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.RiskLevelHigh, body.Result.RiskLevel)
	assert.Equal(t, 3, body.Result.DataAnalyzed.MoodEntries)

	// 告警落库且已被解锁门标记
	var alert models.RiskAlert
	require.NoError(t, db.Where("id = ?", body.Alert.ID).First(&alert).Error)
	assert.True(t, alert.CapsuleUnlocked)

	// 激励胶囊已解锁
	var stored models.TimeCapsule
	require.NoError(t, db.Where("id = ?", capsule.ID).First(&stored).Error)
	assert.True(t, stored.IsUnlocked)
}

// 无数据走低风险快速路径，不调用模型
func TestAssessNoDataFastPath(t *testing.T) {
	db := setupTestDB(t)
	model := &fakeModel{}
	r := setupRiskRouter(t, db, model)

	w := postAssess(r)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Result services.RiskAnalysisResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.RiskLevelLow, body.Result.RiskLevel)
	assert.Equal(t, 0, body.Result.DataAnalyzed.Total())
	assert.Equal(t, 0, model.calls)
}

// 上游限流时返回429且不产生告警
func TestAssessUpstreamRateLimited(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.MoodEntry{
		ID:           uuid.New().String(),
		MoodLabel:    "Anxious",
		Intensity:    3,
		RecordDate:   now.AddDate(0, 0, -1),
		UserID:       "user-1",
		LastModified: now,
	}).Error)

	model := &fakeModel{err: errors.New("status code: 429 rate limit exceeded")}
	r := setupRiskRouter(t, db, model)

	w := postAssess(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "error")

	var count int64
	require.NoError(t, db.Model(&models.RiskAlert{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "上游失败时不应产生告警")
}

// 上游配额不足映射为402
func TestAssessUpstreamQuotaExceeded(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.MoodEntry{
		ID:           uuid.New().String(),
		MoodLabel:    "Anxious",
		Intensity:    3,
		RecordDate:   now.AddDate(0, 0, -1),
		UserID:       "user-1",
		LastModified: now,
	}).Error)

	model := &fakeModel{err: errors.New("status code: 402 insufficient quota")}
	r := setupRiskRouter(t, db, model)

	w := postAssess(r)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

// 每天只允许评估一次
func TestAssessThrottled(t *testing.T) {
	db := setupTestDB(t)
	model := &fakeModel{}
	r := setupRiskRouter(t, db, model)

	w := postAssess(r)
	require.Equal(t, http.StatusOK, w.Code)

	w = postAssess(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "今日已完成风险评估")
}

// 未认证请求直接拒绝
func TestAssessUnauthenticated(t *testing.T) {
	db := setupTestDB(t)
	riskService := services.NewRiskService(db, &fakeModel{})
	capsuleService := services.NewCapsuleService(db)
	throttle := services.NewAssessmentThrottle(services.NewMemoryLastRunStore())
	controller := NewRiskController(riskService, capsuleService, throttle)

	r := gin.New()
	r.POST("/api/v1/risk/assess", controller.Assess)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/assess", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// 最近告警查询
func TestLatestAlertEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupRiskRouter(t, db, &fakeModel{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/alerts/latest", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, db.Create(&models.RiskAlert{
		ID:              uuid.New().String(),
		UserID:          "user-1",
		RiskLevel:       models.RiskLevelModerate,
		AnalysisSummary: "有些波动",
		CreatedAt:       time.Now().UTC(),
	}).Error)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/risk/alerts/latest", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "moderate")
}
