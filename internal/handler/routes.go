package handler

import (
	"feedback-assist-go/internal/config"
	"feedback-assist-go/internal/middleware"
	"feedback-assist-go/internal/service"
	"feedback-assist-go/internal/web"
	"feedback-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册页面、JSON API 与健康检查路由。
// jwtManager 为 nil 时管理后台不做鉴权。
func RegisterRoutes(r *gin.Engine, cfg *config.Config, feedbackService service.FeedbackService, adminService service.AdminService, jwtManager *token.JWTManager) {
	r.SetHTMLTemplate(web.Templates())

	feedbackHandler := NewFeedbackHandler(feedbackService)
	adminHandler := NewAdminHandler(adminService)

	r.GET("/healthz", Healthz)
	r.GET("/", feedbackHandler.UserDashboard)
	r.POST("/submit", feedbackHandler.Submit)

	var adminGuard []gin.HandlerFunc
	if jwtManager != nil {
		adminGuard = append(adminGuard, middleware.AdminAuthMiddleware(jwtManager))
	}

	admin := r.Group("/admin", adminGuard...)
	{
		admin.GET("", feedbackHandler.AdminDashboard)
		admin.GET("/data", feedbackHandler.AdminData)
	}

	api := r.Group("/api", middleware.CORS(cfg.CORS.AllowOrigins))
	{
		// 预检请求由 CORS 中间件直接应答，这里只需让路由命中
		api.OPTIONS("/*path", func(c *gin.Context) {})
		api.POST("/admin/login", adminHandler.Login)

		adminAPI := api.Group("", adminGuard...)
		{
			adminAPI.GET("/submissions", feedbackHandler.ListSubmissions)
			adminAPI.GET("/stats", feedbackHandler.Stats)
		}
	}
}
