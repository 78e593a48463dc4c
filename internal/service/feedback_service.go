package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feedback-assist-go/internal/model"
	"feedback-assist-go/internal/repository"
	"feedback-assist-go/pkg/log"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ErrInvalidSubmission 表示评分超出 1-5 或评论为空。
var ErrInvalidSubmission = errors.New("invalid submission")

// FeedbackService 定义了反馈提交与查询的业务接口。
type FeedbackService interface {
	// Submit 生成 AI 回复并保存记录，返回展示给用户的消息。
	Submit(ctx context.Context, rating int, review string) (string, error)
	ListSubmissions(ctx context.Context) ([]model.Submission, error)
	Stats(ctx context.Context) (model.SubmissionStats, error)
	Dashboard(ctx context.Context) (*model.Dashboard, error)
}

type feedbackService struct {
	assistant FeedbackAssistant
	repo      repository.SubmissionRepository
}

// NewFeedbackService 创建一个新的 FeedbackService 实例。
func NewFeedbackService(assistant FeedbackAssistant, repo repository.SubmissionRepository) FeedbackService {
	return &feedbackService{assistant: assistant, repo: repo}
}

func (s *feedbackService) Submit(ctx context.Context, rating int, review string) (string, error) {
	if rating < MinRating || rating > MaxRating {
		return "", fmt.Errorf("%w: rating must be between %d and %d, got %d", ErrInvalidSubmission, MinRating, MaxRating, rating)
	}
	if strings.TrimSpace(review) == "" {
		return "", fmt.Errorf("%w: review must not be empty", ErrInvalidSubmission)
	}

	// 助手保证返回可用结果，这里只有持久化错误会向上传递
	result := s.assistant.Generate(ctx, review, rating)

	submission := &model.Submission{
		Rating:     rating,
		Review:     review,
		AIResponse: result.UserResponse,
		AISummary:  result.Summary,
		AIActions:  strings.Join(result.Actions, "\n"),
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return "", fmt.Errorf("failed to save submission: %w", err)
	}

	log.Infow("feedback submitted", "id", submission.ID, "rating", rating)
	return result.UserResponse, nil
}

func (s *feedbackService) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	return s.repo.FindAllOrdered(ctx)
}

func (s *feedbackService) Stats(ctx context.Context) (model.SubmissionStats, error) {
	return s.repo.Aggregate(ctx)
}

// Dashboard 一次性取出管理后台需要的列表与统计。
func (s *feedbackService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	subs, err := s.repo.FindAllOrdered(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Dashboard{Submissions: subs, Stats: stats}, nil
}
