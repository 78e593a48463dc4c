// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"

	"feedback-assist-go/internal/config"
	"feedback-assist-go/internal/model"
	"feedback-assist-go/pkg/llm"
	"feedback-assist-go/pkg/log"
)

const assistantSystemPrompt = "You are a concise feedback assistant. Respond ONLY with JSON. " +
	"Keys: user_response (string, <60 words, empathetic), " +
	"summary (one sentence), actions (array of 3 concise bullet strings). " +
	"Do not include markdown or extra text."

// 兜底回复中错误描述的最大长度
const maxFallbackDetailLen = 200

var (
	offlineActions  = []string{"Share feedback with the team", "Improve response time", "Follow up with the customer"}
	wrapperActions  = []string{"Thank the user", "Log the feedback", "Plan a follow-up improvement"}
	fallbackActions = []string{"Review the feedback", "Acknowledge the user", "Plan improvements"}
)

// FeedbackAssistant 为一条反馈生成用户回复、内部摘要和建议动作。
// Generate 不会失败：未配置密钥、调用出错或回复无法解析时都返回确定性的兜底结果。
type FeedbackAssistant interface {
	Generate(ctx context.Context, review string, rating int) model.LLMResult
}

type feedbackAssistant struct {
	llmClient llm.Client
	cfg       config.LLMConfig
}

// NewFeedbackAssistant 创建一个新的 FeedbackAssistant 实例。
func NewFeedbackAssistant(llmClient llm.Client, cfg config.LLMConfig) FeedbackAssistant {
	if cfg.APIKey == "" {
		log.Info("OPENROUTER_API_KEY 未配置，反馈助手将以离线模式运行")
	}
	return &feedbackAssistant{llmClient: llmClient, cfg: cfg}
}

func (a *feedbackAssistant) Generate(ctx context.Context, review string, rating int) model.LLMResult {
	if a.cfg.APIKey == "" || a.llmClient == nil {
		return offlineResult(review, rating)
	}

	messages := []llm.Message{
		{Role: "system", Content: assistantSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Rating: %d. Review: %s", rating, review)},
	}
	content, err := a.llmClient.Complete(ctx, messages, a.generationParams())
	if err != nil {
		log.Warnw("LLM call failed, using fallback result", "rating", rating, "error", err)
		return fallbackResult(rating, err)
	}

	result, ok := ValidateReply(content)
	if !ok {
		log.Warnw("LLM reply is not a JSON object, wrapping raw content", "rating", rating)
		return backfill(wrapperResult(content, review, rating), rating)
	}
	return backfill(result, rating)
}

func (a *feedbackAssistant) generationParams() *llm.GenerationParams {
	temperature := a.cfg.Generation.Temperature
	maxTokens := a.cfg.Generation.MaxTokens
	return &llm.GenerationParams{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		JSONObject:  a.cfg.JSONMode,
	}
}

func offlineResult(review string, rating int) model.LLMResult {
	return model.LLMResult{
		UserResponse: fmt.Sprintf("Thanks for the %d-star review! We appreciate your feedback.", rating),
		Summary:      fmt.Sprintf("Customer rated %d stars and mentioned: %s...", rating, truncateRunes(review, 80)),
		Actions:      cloneActions(offlineActions),
	}
}

// wrapperResult 用于模型忽略了 JSON 要求的情况，原文直接展示给用户。
func wrapperResult(content, review string, rating int) model.LLMResult {
	return model.LLMResult{
		UserResponse: content,
		Summary:      fmt.Sprintf("Customer rated %d stars; key note: %s...", rating, truncateRunes(review, 60)),
		Actions:      cloneActions(wrapperActions),
	}
}

func fallbackResult(rating int, err error) model.LLMResult {
	return model.LLMResult{
		UserResponse: fmt.Sprintf("Thanks for sharing! (fallback due to error: %s)", truncateRunes(err.Error(), maxFallbackDetailLen)),
		Summary:      fmt.Sprintf("Customer rated %d stars.", rating),
		Actions:      cloneActions(fallbackActions),
	}
}

// backfill 保证入库的 ai_response 与 ai_summary 永远非空。
func backfill(result model.LLMResult, rating int) model.LLMResult {
	if result.UserResponse == "" {
		result.UserResponse = fmt.Sprintf("Thanks for the %d-star review! We appreciate your feedback.", rating)
	}
	if result.Summary == "" {
		result.Summary = fmt.Sprintf("Customer rated %d stars.", rating)
	}
	return result
}

func cloneActions(actions []string) []string {
	return append([]string(nil), actions...)
}
