package controllers

import (
	"MindwellGo/config"
	"MindwellGo/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type JournalController struct{}

// SyncJournals 处理日记同步
func (jc *JournalController) SyncJournals(c *gin.Context) {
	var journals []models.SyncJournalsRequest
	if err := c.ShouldBindJSON(&journals); err != nil {
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

	for i := range journals {
		journals[i].ConvertToUTC()
	}

	// 开启事务
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 更新或创建日记
	for _, journalReq := range journals {
		journal := models.JournalEntry{
			ID:           journalReq.ID,
			Title:        journalReq.Title,
			Content:      journalReq.Content,
			RecordDate:   journalReq.RecordDate,
			LastModified: journalReq.LastModified,
			UserID:       uid.(string),
		}

		var existing models.JournalEntry
		if err := tx.Where("id = ?", journal.ID).First(&existing).Error; err == nil {
			if journal.LastModified.After(existing.LastModified) {
				journal.LastModified = time.Now()
				if err := tx.Save(&journal).Error; err != nil {
					tx.Rollback()
					c.JSON(http.StatusInternalServerError, gin.H{"error": "日记同步失败"})
					return
				}
			} else {
				continue
			}
		} else {
			journal.LastModified = time.Now()
			if err := tx.Create(&journal).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "日记同步失败"})
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "日记同步失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "日记同步成功"})
}
