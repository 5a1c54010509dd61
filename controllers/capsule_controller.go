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

type CapsuleController struct {
	capsuleService *services.CapsuleService
}

func NewCapsuleController(capsuleService *services.CapsuleService) *CapsuleController {
	return &CapsuleController{
		capsuleService: capsuleService,
	}
}

// CreateCapsule 创建时间胶囊
func (cc *CapsuleController) CreateCapsule(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.CreateCapsuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	capsule, err := cc.capsuleService.CreateCapsule(c, uid.(string), &req)
	if err != nil {
		if errors.Is(err, services.ErrMotivationalExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "激励胶囊已存在"})
			return
		}
		config.Logger.Errorw("创建时间胶囊失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建时间胶囊失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"capsule": models.NewCapsuleResponse(*capsule)})
}

// ListCapsules 获取胶囊列表，读路径上触发时间解锁
func (cc *CapsuleController) ListCapsules(c *gin.Context) {
	uid := c.GetString("uid")

	capsules, err := cc.capsuleService.RefreshCapsules(c, uid, time.Now().UTC())
	if err != nil {
		config.Logger.Errorw("获取时间胶囊列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取时间胶囊列表失败"})
		return
	}

	responses := make([]models.CapsuleResponse, len(capsules))
	for i, capsule := range capsules {
		responses[i] = models.NewCapsuleResponse(capsule)
	}

	c.JSON(http.StatusOK, gin.H{"capsules": responses})
}

// DeleteCapsule 删除普通时间胶囊
func (cc *CapsuleController) DeleteCapsule(c *gin.Context) {
	uid := c.GetString("uid")
	capsuleID := c.Param("id")

	if err := cc.capsuleService.DeleteCapsule(c, uid, capsuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "时间胶囊不存在"})
			return
		}
		if errors.Is(err, services.ErrMotivationalDelete) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "激励胶囊不允许删除"})
			return
		}
		config.Logger.Errorw("删除时间胶囊失败", "error", err, "uid", uid, "capsuleID", capsuleID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除时间胶囊失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "时间胶囊已删除"})
}
