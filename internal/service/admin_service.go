package service

import (
	"errors"

	"feedback-assist-go/internal/config"
	"feedback-assist-go/pkg/hash"
	"feedback-assist-go/pkg/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminAuthDisabled  = errors.New("admin authentication is not configured")
)

// AdminService 负责管理后台的登录。
type AdminService interface {
	Login(username, password string) (accessToken string, err error)
}

type adminService struct {
	cfg        config.AdminConfig
	jwtManager *token.JWTManager
}

// NewAdminService 创建一个新的 AdminService 实例。jwtManager 为 nil 表示未启用鉴权。
func NewAdminService(cfg config.AdminConfig, jwtManager *token.JWTManager) AdminService {
	return &adminService{cfg: cfg, jwtManager: jwtManager}
}

// Login 校验管理员账号密码并签发 access token。
func (s *adminService) Login(username, password string) (string, error) {
	if s.jwtManager == nil || s.cfg.PasswordHash == "" {
		return "", ErrAdminAuthDisabled
	}
	if username != s.cfg.Username || !hash.CheckPasswordHash(password, s.cfg.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.jwtManager.GenerateToken(username, token.RoleAdmin)
}
