package controllers

import (
	"MindwellGo/models"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMoodRouter(t *testing.T) *gin.Engine {
	t.Helper()
	controller := MoodController{}
	r := gin.New()
	r.Use(testAuth("user-1"))
	r.POST("/api/v1/sync/moods", controller.SyncMoods)
	return r
}

func postMoods(r *gin.Engine, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/moods", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// 同步：新记录创建，较新的修改覆盖，较旧的修改被忽略
func TestSyncMoodsLastModifiedWins(t *testing.T) {
	db := setupTestDB(t)
	r := setupMoodRouter(t)
	now := time.Now().UTC()

	w := postMoods(r, []gin.H{{
		"id":           "mood-1",
		"moodLabel":    "Sad",
		"intensity":    4,
		"note":         "最初的备注",
		"recordDate":   now.Format(time.RFC3339),
		"lastModified": now.Format(time.RFC3339),
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.MoodEntry
	require.NoError(t, db.Where("id = ?", "mood-1").First(&stored).Error)
	assert.Equal(t, "Sad", stored.MoodLabel)
	assert.Equal(t, "user-1", stored.UserID)

	// 更新时间较新：覆盖
	w = postMoods(r, []gin.H{{
		"id":           "mood-1",
		"moodLabel":    "Calm",
		"intensity":    2,
		"note":         "更新后的备注",
		"recordDate":   now.Format(time.RFC3339),
		"lastModified": now.Add(time.Hour).Format(time.RFC3339),
	}})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Where("id = ?", "mood-1").First(&stored).Error)
	assert.Equal(t, "Calm", stored.MoodLabel)

	// 更新时间较旧：忽略
	w = postMoods(r, []gin.H{{
		"id":           "mood-1",
		"moodLabel":    "Angry",
		"intensity":    5,
		"recordDate":   now.Format(time.RFC3339),
		"lastModified": now.Add(-time.Hour).Format(time.RFC3339),
	}})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Where("id = ?", "mood-1").First(&stored).Error)
	assert.Equal(t, "Calm", stored.MoodLabel)
}

// 强度超出1-5被拒绝
func TestSyncMoodsIntensityValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupMoodRouter(t)
	now := time.Now().UTC()

	w := postMoods(r, []gin.H{{
		"id":           "mood-bad",
		"moodLabel":    "Sad",
		"intensity":    9,
		"recordDate":   now.Format(time.RFC3339),
		"lastModified": now.Format(time.RFC3339),
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.MoodEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
