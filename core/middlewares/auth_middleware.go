package middlewares

import (
	"strings"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/entities"
	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/roles"
	"github.com/gin-gonic/gin"

	jsonToken "github.com/golang-jwt/jwt/v4"
)

type billingClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jsonToken.RegisteredClaims
}

// parseBearerClaims verifies the HMAC signature of a Bearer token and returns its claims.
func parseBearerClaims(cfg *config.AppConfig, authHeader string) (*billingClaims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, jsonToken.ErrTokenMalformed
	}

	claims := &billingClaims{}
	token, err := jsonToken.ParseWithClaims(parts[1], claims, func(t *jsonToken.Token) (interface{}, error) {
		if _, ok := t.Method.(*jsonToken.SigningMethodHMAC); !ok {
			return nil, jsonToken.ErrTokenSignatureInvalid
		}
		return []byte(cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jsonToken.ErrTokenInvalidClaims
	}
	return claims, nil
}

// NewProtectMiddleware creates the role-gated auth middleware. A caller with the ADMIN role
// always passes, regardless of the role required by the route.
func NewProtectMiddleware(logger logger.Logger, cfg *config.AppConfig) func(handler gin.HandlerFunc, role string) gin.HandlerFunc {
	return func(handler gin.HandlerFunc, role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			ctx := c.Request.Context()
			authHeader := c.GetHeader("Authorization")

			if len(authHeader) < 1 {
				err := errors.NewAppError(entities.ErrInvalidToken, "missing bearer token", nil, nil)
				httpError := err.ToHTTPError()
				logger.LogError(ctx, "auth failed: missing token", err)
				c.AbortWithStatusJSON(httpError.StatusCode, httpError)
				return
			}

			claims, err := parseBearerClaims(cfg, authHeader)
			if err != nil {
				appError := errors.NewAppError(entities.ErrInvalidToken, "invalid or expired token", nil, err)
				httpError := appError.ToHTTPError()
				logger.LogError(ctx, "auth failed: token verification error", appError)
				c.AbortWithStatusJSON(httpError.StatusCode, httpError)
				return
			}

			if claims.Role != role && claims.Role != roles.Admin {
				appError := errors.NewAppError(entities.ErrUnauthorized, "required role missing", map[string]interface{}{
					"required_role": role,
					"actual_role":   claims.Role,
				}, nil)
				httpError := appError.ToHTTPError()
				logger.LogError(ctx, "auth failed: missing required role", appError)
				c.AbortWithStatusJSON(httpError.StatusCode, httpError)
				return
			}

			logger.Debug(ctx, "auth success", map[string]interface{}{
				"ip":      c.ClientIP(),
				"role":    claims.Role,
				"user_id": claims.UserID,
			})

			c.Set("claims", claims)
			c.Set("user_id", claims.UserID)
			c.Set("user_role", claims.Role)

			handler(c)
		}
	}
}

// NewRequireAuthMiddleware accepts any authenticated caller, regardless of role. Used for
// routes every signed-in user may reach, where ownership (not role) gates the operation.
func NewRequireAuthMiddleware(logger logger.Logger, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		authHeader := c.GetHeader("Authorization")

		if len(authHeader) < 1 {
			err := errors.NewAppError(entities.ErrInvalidToken, "missing bearer token", nil, nil)
			httpError := err.ToHTTPError()
			logger.LogError(ctx, "auth failed: missing token", err)
			c.AbortWithStatusJSON(httpError.StatusCode, httpError)
			return
		}

		claims, err := parseBearerClaims(cfg, authHeader)
		if err != nil {
			appError := errors.NewAppError(entities.ErrInvalidToken, "invalid or expired token", nil, err)
			httpError := appError.ToHTTPError()
			logger.LogError(ctx, "auth failed: token verification error", appError)
			c.AbortWithStatusJSON(httpError.StatusCode, httpError)
			return
		}

		c.Set("claims", claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// NewOptionalAuthMiddleware extracts caller identity if a valid token is present, without
// rejecting the request when it is absent or invalid.
func NewOptionalAuthMiddleware(logger logger.Logger, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 1 {
			c.Next()
			return
		}

		claims, err := parseBearerClaims(cfg, authHeader)
		if err != nil {
			c.Next()
			return
		}

		c.Set("claims", claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}
