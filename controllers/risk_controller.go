package controllers

import (
	"MindwellGo/config"
	"MindwellGo/models"
	"MindwellGo/services"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RiskController struct {
	riskService    *services.RiskService
	capsuleService *services.CapsuleService
	throttle       *services.AssessmentThrottle
}

func NewRiskController(riskService *services.RiskService, capsuleService *services.CapsuleService, throttle *services.AssessmentThrottle) *RiskController {
	return &RiskController{
		riskService:    riskService,
		capsuleService: capsuleService,
		throttle:       throttle,
	}
}

// Assess 触发一次风险评估
// 流程：节流检查 -> 评估 -> 记录告警 -> 胶囊解锁门
func (rc *RiskController) Assess(c *gin.Context) {
	// 获取用户ID
	uid, exists := c.Get("uid")
	if !exists {
		config.Logger.Errorw("未获取到用户ID")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}
	userID := uid.(string)
	now := time.Now().UTC()

	// 每个用户每天至多评估一次
	allowed, err := rc.throttle.Allow(c, userID, now)
	if err != nil {
		config.Logger.Errorw("评估节流检查失败", "error", err, "uid", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "评估节流检查失败"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "今日已完成风险评估，请明天再试"})
		return
	}

	result, err := rc.riskService.AssessRisk(c, userID, now)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "评估服务繁忙，请稍后再试"})
		case errors.Is(err, services.ErrQuotaExceeded):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "评估服务配额不足"})
		default:
			config.Logger.Errorw("风险评估失败", "error", err, "uid", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "风险评估失败"})
		}
		return
	}

	alert, err := rc.riskService.RecordAlert(c, userID, result)
	if err != nil {
		config.Logger.Errorw("存储风险告警失败", "error", err, "uid", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "存储风险告警失败"})
		return
	}

	// 高危或危急时解锁激励胶囊，失败不影响本次响应
	rc.capsuleService.UnlockMotivationalCapsule(c, alert)

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"alert":  alert,
	})
}

// LatestAlert 获取最近一条风险告警
func (rc *RiskController) LatestAlert(c *gin.Context) {
	uid := c.GetString("uid")

	alert, err := rc.riskService.LatestAlert(c, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "暂无风险告警"})
			return
		}
		config.Logger.Errorw("获取风险告警失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取风险告警失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// ListAlerts 获取风险告警历史
func (rc *RiskController) ListAlerts(c *gin.Context) {
	uid := c.GetString("uid")

	var alerts []models.RiskAlert
	if err := config.DB.Where("user_id = ?", uid).
		Order("created_at desc").
		Limit(30).
		Find(&alerts).Error; err != nil {
		config.Logger.Errorw("获取风险告警历史失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取风险告警历史失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
