package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kvizarena/api/config"
	"github.com/kvizarena/api/internal/dto"
)

const (
	ctxUserIDKey  = "auth_user_id"
	ctxIsAdminKey = "auth_is_admin"
)

// RequireAuth validates the Bearer token and stores the caller identity in
// the request context. Gameplay endpoints always run behind this.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.Auth.JWTSecret), nil
		}); err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		rawUserID, ok := claims["user_id"].(float64)
		if !ok || rawUserID <= 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}
		isAdmin, _ := claims["is_admin"].(bool)

		ctx.Set(ctxUserIDKey, uint(rawUserID))
		ctx.Set(ctxIsAdminKey, isAdmin)
		ctx.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !ctx.GetBool(ctxIsAdminKey) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Admin privileges required"})
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated caller's id, zero when unauthenticated.
func UserID(ctx *gin.Context) uint {
	if v, ok := ctx.Get(ctxUserIDKey); ok {
		if id, isUint := v.(uint); isUint {
			return id
		}
	}
	return 0
}
