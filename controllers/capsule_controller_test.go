package controllers

import (
	"MindwellGo/models"
	"MindwellGo/services"
	"bytes"
	"encoding/json"
	"fmt"
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

func setupCapsuleRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	controller := NewCapsuleController(services.NewCapsuleService(db))

	r := gin.New()
	r.Use(testAuth("user-1"))
	r.POST("/api/v1/capsules", controller.CreateCapsule)
	r.GET("/api/v1/capsules", controller.ListCapsules)
	r.DELETE("/api/v1/capsules/:id", controller.DeleteCapsule)
	return r
}

func postCapsule(r *gin.Engine, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/capsules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// 创建普通胶囊与激励胶囊，激励胶囊重复创建返回409
func TestCreateCapsule(t *testing.T) {
	db := setupTestDB(t)
	r := setupCapsuleRouter(t, db)

	w := postCapsule(r, gin.H{
		"title":      "一年后的自己",
		"content":    "希望你过得好",
		"unlockDate": time.Now().UTC().AddDate(1, 0, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postCapsule(r, gin.H{
		"title":          "自我关怀",
		"content":        "你已经很努力了",
		"isMotivational": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 重复的激励胶囊被拒绝
	w = postCapsule(r, gin.H{
		"title":          "第二个",
		"content":        "不应该成功",
		"isMotivational": true,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 普通胶囊缺少解锁时间是参数错误
	w = postCapsule(r, gin.H{
		"title":   "没有时间",
		"content": "内容",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// 列表读取触发时间解锁，未解锁的胶囊不返回内容
func TestListCapsulesTimeGateAndHiddenContent(t *testing.T) {
	db := setupTestDB(t)
	r := setupCapsuleRouter(t, db)
	now := time.Now().UTC()

	due := models.TimeCapsule{
		ID:         uuid.New().String(),
		UserID:     "user-1",
		Title:      "昨天就该打开",
		Content:    "秘密内容A",
		UnlockDate: now.AddDate(0, 0, -1),
		CreatedAt:  now,
	}
	future := models.TimeCapsule{
		ID:         uuid.New().String(),
		UserID:     "user-1",
		Title:      "还早",
		Content:    "秘密内容B",
		UnlockDate: now.AddDate(0, 0, 7),
		CreatedAt:  now,
	}
	require.NoError(t, db.Create(&due).Error)
	require.NoError(t, db.Create(&future).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/capsules", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Capsules []models.CapsuleResponse `json:"capsules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Capsules, 2)

	byID := make(map[string]models.CapsuleResponse)
	for _, c := range body.Capsules {
		byID[c.ID] = c
	}
	assert.True(t, byID[due.ID].IsUnlocked)
	assert.Equal(t, "秘密内容A", byID[due.ID].Content)
	assert.False(t, byID[future.ID].IsUnlocked)
	assert.Empty(t, byID[future.ID].Content, "锁定的胶囊不应返回内容")
}

// 删除接口：普通可删、激励拒绝、不存在404
func TestDeleteCapsuleEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupCapsuleRouter(t, db)
	now := time.Now().UTC()

	ordinary := models.TimeCapsule{
		ID:         uuid.New().String(),
		UserID:     "user-1",
		Title:      "普通",
		Content:    "内容",
		UnlockDate: now.AddDate(0, 0, 7),
		CreatedAt:  now,
	}
	motivational := models.TimeCapsule{
		ID:             uuid.New().String(),
		UserID:         "user-1",
		Title:          "激励",
		Content:        "内容",
		IsMotivational: true,
		UnlockDate:     models.MotivationalUnlockDate,
		CreatedAt:      now,
	}
	require.NoError(t, db.Create(&ordinary).Error)
	require.NoError(t, db.Create(&motivational).Error)

	deleteReq := func(id string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/capsules/%s", id), nil)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, deleteReq(ordinary.ID).Code)
	assert.Equal(t, http.StatusBadRequest, deleteReq(motivational.ID).Code)
	assert.Equal(t, http.StatusNotFound, deleteReq("missing").Code)
}
