package middlewares

import (
	"slices"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID = "userId"
	ctxRole   = "role"
	ctxClaims = "claims"
)

// Auth middleware
func AuthMiddleware(tm *utils.TokenManager, resp *utils.ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			resp.Respond(c, utils.AuthError("Authentication token not provided"))
			return
		}

		raw, ok := utils.BearerToken(header)
		if !ok {
			resp.Respond(c, utils.AuthError("Invalid authorization header"))
			return
		}

		claims, err := tm.Parse(raw)
		if err != nil {
			resp.Respond(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID())
		c.Set(ctxRole, claims.Role)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RoleMiddleware must run after AuthMiddleware.
func RoleMiddleware(resp *utils.ErrorResponder, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			resp.Respond(c, utils.AuthError("Authentication required"))
			return
		}
		if !slices.Contains(roles, claims.Role) {
			resp.Respond(c, utils.ForbiddenError("You do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}

// CurrentUserID returns the authenticated caller's account id.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	claims, ok := CurrentClaims(c)
	if !ok {
		return uuid.Nil, utils.AuthError("Authentication required")
	}
	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return uuid.Nil, utils.AuthError("Invalid token claims")
	}
	return id, nil
}
