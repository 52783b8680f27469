package controllers

import (
	"net/http"

	"chiludos-backend/config"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

func (hc *HealthController) Health(c *gin.Context) {
	if err := config.Ping(c.Request.Context(), hc.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.Envelope{Success: false, Message: "Database unavailable"})
		return
	}
	utils.RespondWithData(c, http.StatusOK, "OK", gin.H{"database": "up"})
}
