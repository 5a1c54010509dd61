package controllers

import (
	"MindwellGo/config"
	"MindwellGo/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CBTController struct{}

// SyncCBTRecords 处理思维记录同步
func (cc *CBTController) SyncCBTRecords(c *gin.Context) {
	var records []models.SyncCBTRecordsRequest
	if err := c.ShouldBindJSON(&records); err != nil {
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

	for i := range records {
		records[i].ConvertToUTC()
	}

	// 开启事务
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 更新或创建思维记录
	for _, recordReq := range records {
		record := models.CBTRecord{
			ID:               recordReq.ID,
			Situation:        recordReq.Situation,
			AutomaticThought: recordReq.AutomaticThought,
			Distortions:      recordReq.Distortions,
			Reframe:          recordReq.Reframe,
			RecordDate:       recordReq.RecordDate,
			LastModified:     recordReq.LastModified,
			UserID:           uid.(string),
		}

		var existing models.CBTRecord
		if err := tx.Where("id = ?", record.ID).First(&existing).Error; err == nil {
			if record.LastModified.After(existing.LastModified) {
				record.LastModified = time.Now()
				if err := tx.Save(&record).Error; err != nil {
					tx.Rollback()
					c.JSON(http.StatusInternalServerError, gin.H{"error": "思维记录同步失败"})
					return
				}
			} else {
				continue
			}
		} else {
			record.LastModified = time.Now()
			if err := tx.Create(&record).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "思维记录同步失败"})
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "思维记录同步失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "思维记录同步成功"})
}
