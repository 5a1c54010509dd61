package controllers

import (
	"MindwellGo/config"
	"MindwellGo/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type MoodController struct{}

// SyncMoods 处理心情记录同步
func (mc *MoodController) SyncMoods(c *gin.Context) {
	var moods []models.SyncMoodsRequest
	if err := c.ShouldBindJSON(&moods); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// 获取用户ID
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	// 校验强度范围
	for i := range moods {
		if err := moods[i].Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		moods[i].ConvertToUTC()
	}

	// 开启事务
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 更新或创建心情记录
	for _, moodReq := range moods {
		mood := models.MoodEntry{
			ID:           moodReq.ID,
			MoodLabel:    moodReq.MoodLabel,
			Intensity:    moodReq.Intensity,
			Note:         moodReq.Note,
			RecordDate:   moodReq.RecordDate,
			LastModified: moodReq.LastModified,
			UserID:       uid.(string),
		}

		// 检查是否存在同ID记录
		var existing models.MoodEntry
		if err := tx.Where("id = ?", mood.ID).First(&existing).Error; err == nil {
			// 如果存在，比较 lastModified 时间戳
			if mood.LastModified.After(existing.LastModified) {
				mood.LastModified = time.Now()
				if err := tx.Save(&mood).Error; err != nil {
					tx.Rollback()
					c.JSON(http.StatusInternalServerError, gin.H{"error": "心情记录同步失败"})
					return
				}
			} else {
				// 旧数据更晚，忽略新数据
				continue
			}
		} else {
			// 不存在则创建
			mood.LastModified = time.Now()
			if err := tx.Create(&mood).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "心情记录同步失败"})
				return
			}
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "心情记录同步失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "心情记录同步成功"})
}
