package middleware

import (
	"net/http"
	"strings"

	"feedback-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// AdminTokenCookie 是浏览器访问管理后台页面时携带 token 的 cookie 名
const AdminTokenCookie = "admin_token"

// AdminAuthMiddleware 校验管理员 JWT。
// token 可以放在 Authorization: Bearer 头中，也可以放在 admin_token cookie 中。
func AdminAuthMiddleware(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie(AdminTokenCookie); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "missing admin token", "data": nil})
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "invalid or expired token", "data": nil})
			return
		}
		if claims.Role != token.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "admin role required", "data": nil})
			return
		}

		c.Next()
	}
}

func bearerToken(header string) string {
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}
