package models

import "time"

// SyncUpdatesResponse 同步更新响应结构体
type SyncUpdatesResponse struct {
	Moods    []MoodResponse    `json:"moods"`
	Journals []JournalResponse `json:"journals"`
	CBTs     []CBTResponse     `json:"cbtRecords"`
	Emotions []EmotionResponse `json:"emotions"`
}

// MoodResponse 心情记录响应结构体
type MoodResponse struct {
	ID           string    `json:"id"`
	MoodLabel    string    `json:"moodLabel"`
	Intensity    int       `json:"intensity"`
	Note         string    `json:"note"`
	RecordDate   time.Time `json:"recordDate"`
	LastModified time.Time `json:"lastModified"`
}

// JournalResponse 日记响应结构体
type JournalResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	RecordDate   time.Time `json:"recordDate"`
	LastModified time.Time `json:"lastModified"`
}

// CBTResponse 思维记录响应结构体
type CBTResponse struct {
	ID               string    `json:"id"`
	Situation        string    `json:"situation"`
	AutomaticThought string    `json:"automaticThought"`
	Distortions      string    `json:"distortions"`
	Reframe          string    `json:"reframe"`
	RecordDate       time.Time `json:"recordDate"`
	LastModified     time.Time `json:"lastModified"`
}

// EmotionResponse 情绪转化会话响应结构体
type EmotionResponse struct {
	ID               string    `json:"id"`
	EmotionType      string    `json:"emotionType"`
	Intensity        int       `json:"intensity"`
	Trigger          string    `json:"trigger"`
	UnhealthyBeliefs string    `json:"unhealthyBeliefs"`
	HealthyEmotion   string    `json:"healthyEmotion"`
	CopingStrategies string    `json:"copingStrategies"`
	RecordDate       time.Time `json:"recordDate"`
	LastModified     time.Time `json:"lastModified"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
}

// CapsuleResponse 时间胶囊响应结构体
// 未解锁的胶囊不返回内容
type CapsuleResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	MediaURL       string    `json:"mediaUrl,omitempty"`
	IsMotivational bool      `json:"isMotivational"`
	IsUnlocked     bool      `json:"isUnlocked"`
	UnlockDate     time.Time `json:"unlockDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewCapsuleResponse 构造胶囊响应，锁定状态下隐藏内容
func NewCapsuleResponse(c TimeCapsule) CapsuleResponse {
	resp := CapsuleResponse{
		ID:             c.ID,
		Title:          c.Title,
		IsMotivational: c.IsMotivational,
		IsUnlocked:     c.IsUnlocked,
		UnlockDate:     c.UnlockDate,
		CreatedAt:      c.CreatedAt,
	}
	if c.IsUnlocked {
		resp.Content = c.Content
		resp.MediaURL = c.MediaURL
	}
	return resp
}
