package models

import "time"

// MoodEntry 心情记录模型
type MoodEntry struct {
	ID           string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	MoodLabel    string    `gorm:"type:varchar(50)" json:"moodLabel"`
	Intensity    int       `json:"intensity"` // 1-5
	Note         string    `gorm:"type:text" json:"note"`
	Status       int       `gorm:"type:int" default:"0" json:"status"` // 0: 正常 1: 删除
	RecordDate   time.Time `json:"recordDate"`
	UserID       string    `gorm:"type:varchar(50);index" json:"user_id"`
	LastModified time.Time `json:"lastModified"`
}
