package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumitory-backend/internal/shared/server/middleware"
	"resumitory-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	respond.OK(c, gin.H{
		"user_id": userID,
		"message": "Authentication successful",
	})
}
