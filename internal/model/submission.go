// Package model 包含了应用的数据模型定义。
package model

import "time"

// Submission 代表一次用户反馈及其 AI 生成的回复、摘要与建议动作。
// 创建后不再修改。
type Submission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Review     string    `gorm:"type:text;not null" json:"review"`
	AIResponse string    `gorm:"type:text" json:"ai_response"`
	AISummary  string    `gorm:"type:text" json:"ai_summary"`
	AIActions  string    `gorm:"type:text" json:"ai_actions"` // 以换行符拼接
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionStats 是管理后台展示的汇总数据。
type SubmissionStats struct {
	Total     int64   `json:"total"`
	AvgRating float64 `json:"avg_rating"`
}

// Dashboard 聚合了管理后台一次渲染所需的全部数据。
type Dashboard struct {
	Submissions []Submission
	Stats       SubmissionStats
}
