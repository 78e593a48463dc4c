package handler

import (
	"errors"
	"net/http"

	"feedback-assist-go/internal/middleware"
	"feedback-assist-go/internal/service"
	"feedback-assist-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AdminHandler 负责管理后台登录。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// LoginRequest 定义了管理员登录 API 的请求体结构。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验管理员账号并返回 access token，同时写入 cookie 方便浏览器访问后台页面。
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "username and password are required", "data": nil})
		return
	}

	accessToken, err := h.adminService.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrAdminAuthDisabled):
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "admin login is disabled", "data": nil})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Warnf("Login: failed admin login for '%s'", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "invalid username or password", "data": nil})
		return
	case err != nil:
		logError(c, "Login: failed to issue token", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to issue token", "data": nil})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminTokenCookie, accessToken, 0, "/", "", false, true)
	log.Infof("Admin user '%s' logged in", req.Username)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"accessToken": accessToken}})
}
