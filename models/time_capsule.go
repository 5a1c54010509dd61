package models

import "time"

// MotivationalUnlockDate 激励胶囊的哨兵解锁时间
// 激励胶囊不参与时间解锁，只由风险告警触发解锁，该时间永远不会到达
var MotivationalUnlockDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// TimeCapsule 时间胶囊模型
// 每个用户至多一个 is_motivational = true 的激励胶囊
type TimeCapsule struct {
	ID             string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID         string    `gorm:"type:varchar(50);index" json:"user_id"`
	Title          string    `gorm:"type:varchar(200)" json:"title"`
	Content        string    `gorm:"type:text" json:"content"`
	MediaURL       string    `gorm:"type:varchar(255)" json:"mediaUrl"`
	IsMotivational bool      `gorm:"default:false" json:"isMotivational"`
	IsUnlocked     bool      `gorm:"default:false" json:"isUnlocked"`
	UnlockDate     time.Time `json:"unlockDate"`
	CreatedAt      time.Time `json:"createdAt"`
}
