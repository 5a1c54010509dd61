package models

import "time"

// JournalEntry 日记模型
type JournalEntry struct {
	ID           string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(200)" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	Status       int       `gorm:"type:int" default:"0" json:"status"` // 0: 正常 1: 删除
	RecordDate   time.Time `json:"recordDate"`
	UserID       string    `gorm:"type:varchar(50);index" json:"user_id"`
	LastModified time.Time `json:"lastModified"`
}
