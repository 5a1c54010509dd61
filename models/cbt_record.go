package models

import "time"

// CBTRecord 认知行为疗法思维记录模型
type CBTRecord struct {
	ID               string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Situation        string    `gorm:"type:text" json:"situation"`
	AutomaticThought string    `gorm:"type:text" json:"automaticThought"`
	Distortions      string    `gorm:"type:text" json:"distortions"` // 认知歪曲标签，逗号分隔
	Reframe          string    `gorm:"type:text" json:"reframe"`
	Status           int       `gorm:"type:int" default:"0" json:"status"` // 0: 正常 1: 删除
	RecordDate       time.Time `json:"recordDate"`
	UserID           string    `gorm:"type:varchar(50);index" json:"user_id"`
	LastModified     time.Time `json:"lastModified"`
}
