// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"feedback-assist-go/internal/middleware"
	"feedback-assist-go/internal/model"
	"feedback-assist-go/internal/service"
	"feedback-assist-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler 负责用户提交页面、管理后台页面与只读 JSON 接口。
type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

// NewFeedbackHandler 创建一个新的 FeedbackHandler 实例。
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedbackRequest 定义了反馈表单的字段。
type SubmitFeedbackRequest struct {
	Rating int    `form:"rating" binding:"required,min=1,max=5"`
	Review string `form:"review" binding:"required"`
}

// UserDashboard 渲染反馈表单。
func (h *FeedbackHandler) UserDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "user.html", gin.H{})
}

// Submit 处理表单提交，渲染 AI 生成的致谢消息。
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warnf("Submit: invalid form payload, error: %v", err)
		c.HTML(http.StatusBadRequest, "user.html", gin.H{"error": "Please choose a rating between 1 and 5 and write a short review."})
		return
	}

	message, err := h.feedbackService.Submit(c.Request.Context(), req.Rating, req.Review)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubmission) {
			log.Warnf("Submit: rejected submission, error: %v", err)
			c.HTML(http.StatusBadRequest, "user.html", gin.H{"error": "Please choose a rating between 1 and 5 and write a short review."})
			return
		}
		logError(c, "Submit: failed to save feedback", err)
		c.HTML(http.StatusInternalServerError, "user.html", gin.H{"error": "Sorry, we could not save your feedback. Please try again later."})
		return
	}

	c.HTML(http.StatusOK, "user.html", gin.H{
		"message":     message,
		"last_review": req.Review,
		"last_rating": req.Rating,
	})
}

// AdminDashboard 渲染完整的管理后台页面。
func (h *FeedbackHandler) AdminDashboard(c *gin.Context) {
	h.renderDashboard(c, "admin.html")
}

// AdminData 只渲染表格部分，供页面轮询刷新。
func (h *FeedbackHandler) AdminData(c *gin.Context) {
	h.renderDashboard(c, "admin_table.html")
}

func (h *FeedbackHandler) renderDashboard(c *gin.Context, name string) {
	dash, err := h.feedbackService.Dashboard(c.Request.Context())
	if err != nil {
		logError(c, "AdminDashboard: failed to load submissions", err)
		c.String(http.StatusInternalServerError, "failed to load submissions")
		return
	}
	c.HTML(http.StatusOK, name, gin.H{
		"subs":       dash.Submissions,
		"total":      dash.Stats.Total,
		"avg_rating": dash.Stats.AvgRating,
	})
}

// ListSubmissions 以 JSON 数组返回全部记录，按创建时间倒序。
func (h *FeedbackHandler) ListSubmissions(c *gin.Context) {
	subs, err := h.feedbackService.ListSubmissions(c.Request.Context())
	if err != nil {
		logError(c, "ListSubmissions: failed to list submissions", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to list submissions", "data": nil})
		return
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	c.JSON(http.StatusOK, subs)
}

// Stats 返回总数与平均评分。
func (h *FeedbackHandler) Stats(c *gin.Context) {
	stats, err := h.feedbackService.Stats(c.Request.Context())
	if err != nil {
		logError(c, "Stats: failed to aggregate submissions", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to aggregate submissions", "data": nil})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Healthz 健康检查，无副作用。
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// logError 记录处理失败的错误，并带上 RequestLogger 写入的请求 ID。
func logError(c *gin.Context, msg string, err error) {
	log.Errorw(msg, "requestId", c.GetString(middleware.RequestIDKey), "error", err)
}
