// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"feedback-assist-go/internal/model"

	"gorm.io/gorm"
)

// SubmissionRepository 接口定义了反馈记录的持久化操作。
// 记录只会被创建，不提供更新和删除。
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	FindAllOrdered(ctx context.Context) ([]model.Submission, error)
	Aggregate(ctx context.Context) (model.SubmissionStats, error)
}

// submissionRepository 是 SubmissionRepository 接口的 GORM 实现。
// 每次调用都通过 WithContext 开启独立会话，连接在调用结束后归还连接池。
type submissionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSubmissionRepository 创建一个新的 SubmissionRepository 实例。
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db, now: time.Now}
}

// Create 在单个事务中插入一条记录，并回填 ID 与 CreatedAt。
func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = r.now().UTC()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(submission).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// FindAllOrdered 按创建时间倒序返回全部记录，时间相同时后插入的排在前面。
func (r *submissionRepository) FindAllOrdered(ctx context.Context) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// Aggregate 计算总数与平均评分（保留两位小数，无记录时为 0）。
func (r *submissionRepository) Aggregate(ctx context.Context) (model.SubmissionStats, error) {
	var row struct {
		Total     int64
		AvgRating float64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg_rating").
		Scan(&row).Error
	if err != nil {
		return model.SubmissionStats{}, fmt.Errorf("failed to aggregate submissions: %w", err)
	}
	if row.Total == 0 {
		return model.SubmissionStats{}, nil
	}
	return model.SubmissionStats{
		Total:     row.Total,
		AvgRating: math.Round(row.AvgRating*100) / 100,
	}, nil
}
