package middleware

import (
	"net/http"
	"strings"

	"evenza/internal/auth"
	"evenza/internal/model"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Auth 解析 Authorization: Bearer <jwt> 並把 Identity 放進 context。
// required 為 false 時沒帶 token 也放行(Identity 為 nil)。
func Auth(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" || raw == c.GetHeader("Authorization") {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			c.Next()
			return
		}

		ident, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// IdentityFrom 取出目前請求的登入者,未登入回傳 nil
func IdentityFrom(c *gin.Context) *model.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, ok := value.(*model.Identity)
	if !ok {
		return nil
	}
	return ident
}
