package models

import (
	"fmt"
	"time"
)

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SyncMoodsRequest 心情记录同步请求结构体
type SyncMoodsRequest struct {
	ID           string    `json:"id"`
	MoodLabel    string    `json:"moodLabel"`
	Intensity    int       `json:"intensity"` // 1-5
	Note         string    `json:"note"`
	RecordDate   time.Time `json:"recordDate"`
	LastModified time.Time `json:"lastModified"`
}

func (r *SyncMoodsRequest) ConvertToUTC() {
	r.RecordDate = r.RecordDate.UTC()
	r.LastModified = r.LastModified.UTC()
}

func (r *SyncMoodsRequest) Validate() error {
	if r.Intensity < 1 || r.Intensity > 5 {
		return fmt.Errorf("intensity must be between 1 and 5")
	}
	return nil
}

// SyncJournalsRequest 日记同步请求结构体
type SyncJournalsRequest struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	RecordDate   time.Time `json:"recordDate"`
	LastModified time.Time `json:"lastModified"`
}

func (r *SyncJournalsRequest) ConvertToUTC() {
	r.RecordDate = r.RecordDate.UTC()
	r.LastModified = r.LastModified.UTC()
}

// SyncCBTRecordsRequest 思维记录同步请求结构体
type SyncCBTRecordsRequest struct {
	ID               string    `json:"id"`
	Situation        string    `json:"situation"`
	AutomaticThought string    `json:"automaticThought"`
	Distortions      string    `json:"distortions"`
	Reframe          string    `json:"reframe"`
	RecordDate       time.Time `json:"recordDate"`
	LastModified     time.Time `json:"lastModified"`
}

func (r *SyncCBTRecordsRequest) ConvertToUTC() {
	r.RecordDate = r.RecordDate.UTC()
	r.LastModified = r.LastModified.UTC()
}

// SyncEmotionsRequest 情绪转化会话同步请求结构体
type SyncEmotionsRequest struct {
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

func (r *SyncEmotionsRequest) ConvertToUTC() {
	r.RecordDate = r.RecordDate.UTC()
	r.LastModified = r.LastModified.UTC()
}

// CreateCapsuleRequest 创建时间胶囊请求结构体
type CreateCapsuleRequest struct {
	Title          string    `json:"title" binding:"required"`
	Content        string    `json:"content" binding:"required"`
	MediaURL       string    `json:"mediaUrl"`
	IsMotivational bool      `json:"isMotivational"`
	UnlockDate     time.Time `json:"unlockDate"`
}

func (r *CreateCapsuleRequest) Validate() error {
	// 激励胶囊不需要解锁时间，普通胶囊必须指定
	if !r.IsMotivational && r.UnlockDate.IsZero() {
		return fmt.Errorf("unlock date is required for ordinary capsules")
	}
	r.UnlockDate = r.UnlockDate.UTC()
	return nil
}
