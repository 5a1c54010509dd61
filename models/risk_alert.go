package models

import (
	"time"

	"gorm.io/datatypes"
)

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// riskLevelRank 风险等级排序：low < moderate < high < critical
var riskLevelRank = map[RiskLevel]int{
	RiskLevelLow:      0,
	RiskLevelModerate: 1,
	RiskLevelHigh:     2,
	RiskLevelCritical: 3,
}

// Valid 判断是否为合法的风险等级
func (l RiskLevel) Valid() bool {
	_, ok := riskLevelRank[l]
	return ok
}

// AtLeast 判断当前等级是否不低于给定等级
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return riskLevelRank[l] >= riskLevelRank[other]
}

// ShouldUnlockCapsule 高危或危急等级才触发激励胶囊解锁
func (l RiskLevel) ShouldUnlockCapsule() bool {
	return l == RiskLevelHigh || l == RiskLevelCritical
}

// RiskAlert 风险评估告警模型，仅追加写入
// capsule_unlocked 是唯一允许的变更字段，且只能从 false 变为 true 一次
type RiskAlert struct {
	ID              string         `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID          string         `gorm:"type:varchar(50);index" json:"user_id"`
	RiskLevel       RiskLevel      `gorm:"type:varchar(20)" json:"riskLevel"`
	AnalysisSummary string         `gorm:"type:text" json:"analysisSummary"`
	Recommendations datatypes.JSON `json:"recommendations"`
	DataSources     datatypes.JSON `json:"dataSources"` // 各类记录的数量快照
	CapsuleUnlocked bool           `gorm:"default:false" json:"capsuleUnlocked"`
	CreatedAt       time.Time      `json:"createdAt"`
}
