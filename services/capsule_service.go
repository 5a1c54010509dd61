package services

import (
	"MindwellGo/config"
	"MindwellGo/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrMotivationalExists 每个用户只允许一个激励胶囊
	ErrMotivationalExists = errors.New("激励胶囊已存在")
	// ErrMotivationalDelete 激励胶囊不允许删除
	ErrMotivationalDelete = errors.New("激励胶囊不允许删除")
)

type CapsuleService struct {
	db *gorm.DB
}

func NewCapsuleService(db *gorm.DB) *CapsuleService {
	return &CapsuleService{
		db: db,
	}
}

// CreateCapsule 创建时间胶囊
// 激励胶囊使用哨兵解锁时间，且每个用户至多一个，重复创建被拒绝
func (s *CapsuleService) CreateCapsule(ctx context.Context, userID string, req *models.CreateCapsuleRequest) (*models.TimeCapsule, error) {
	capsule := models.TimeCapsule{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          req.Title,
		Content:        req.Content,
		MediaURL:       req.MediaURL,
		IsMotivational: req.IsMotivational,
		IsUnlocked:     false,
		UnlockDate:     req.UnlockDate,
		CreatedAt:      time.Now().UTC(),
	}

	if req.IsMotivational {
		capsule.UnlockDate = models.MotivationalUnlockDate

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.TimeCapsule{}).
			Where("user_id = ? AND is_motivational = ?", userID, true).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("查询激励胶囊失败: %w", err)
		}
		if count > 0 {
			return nil, ErrMotivationalExists
		}
	}

	if err := s.db.WithContext(ctx).Create(&capsule).Error; err != nil {
		return nil, fmt.Errorf("创建时间胶囊失败: %w", err)
	}

	config.Logger.Infow("时间胶囊已创建",
		"capsuleID", capsule.ID,
		"uid", userID,
		"motivational", capsule.IsMotivational,
	)
	return &capsule, nil
}

// RefreshCapsules 读取用户的胶囊列表，读路径上执行时间解锁
// 普通胶囊到达解锁时间即解锁并落库；激励胶囊不参与时间解锁
func (s *CapsuleService) RefreshCapsules(ctx context.Context, userID string, now time.Time) ([]models.TimeCapsule, error) {
	var capsules []models.TimeCapsule
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&capsules).Error; err != nil {
		return nil, fmt.Errorf("获取时间胶囊列表失败: %w", err)
	}

	for i := range capsules {
		c := &capsules[i]
		if c.IsMotivational || c.IsUnlocked {
			continue
		}
		if c.UnlockDate.After(now) {
			continue
		}
		if err := s.db.WithContext(ctx).Model(&models.TimeCapsule{}).
			Where("id = ? AND is_unlocked = ?", c.ID, false).
			Update("is_unlocked", true).Error; err != nil {
			// 解锁落库失败时本次仍按锁定返回，下次读取会重试
			config.Logger.Errorw("时间胶囊解锁落库失败", "error", err, "capsuleID", c.ID)
			continue
		}
		c.IsUnlocked = true
	}

	return capsules, nil
}

// UnlockMotivationalCapsule 胶囊解锁门
// 仅对 high/critical 告警触发；先解锁胶囊，再标记告警，两次写入均幂等
func (s *CapsuleService) UnlockMotivationalCapsule(ctx context.Context, alert *models.RiskAlert) {
	if !alert.RiskLevel.ShouldUnlockCapsule() {
		return
	}
	// 已处理过的告警不再触发
	if alert.CapsuleUnlocked {
		return
	}

	// 先解锁胶囊：失败时不标记告警，留待下次重试
	result := s.db.WithContext(ctx).Model(&models.TimeCapsule{}).
		Where("user_id = ? AND is_motivational = ? AND is_unlocked = ?", alert.UserID, true, false).
		Update("is_unlocked", true)
	if result.Error != nil {
		config.Logger.Errorw("激励胶囊解锁失败",
			"error", result.Error,
			"alertID", alert.ID,
			"uid", alert.UserID,
		)
		return
	}
	if result.RowsAffected > 0 {
		config.Logger.Infow("激励胶囊已解锁", "alertID", alert.ID, "uid", alert.UserID)
	}

	// 再标记告警；失败仅记录日志，胶囊解锁已幂等，下次调用会补齐
	if err := s.db.WithContext(ctx).Model(&models.RiskAlert{}).
		Where("id = ? AND capsule_unlocked = ?", alert.ID, false).
		Update("capsule_unlocked", true).Error; err != nil {
		config.Logger.Errorw("标记告警解锁状态失败",
			"error", err,
			"alertID", alert.ID,
		)
		return
	}
	alert.CapsuleUnlocked = true
}

// DeleteCapsule 删除用户自己的普通胶囊，激励胶囊不允许删除
func (s *CapsuleService) DeleteCapsule(ctx context.Context, userID, capsuleID string) error {
	var capsule models.TimeCapsule
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", capsuleID, userID).
		First(&capsule).Error; err != nil {
		return err
	}
	if capsule.IsMotivational {
		return ErrMotivationalDelete
	}
	return s.db.WithContext(ctx).Delete(&capsule).Error
}
