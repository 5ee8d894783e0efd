package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"licensedesk/internal/models"
	"licensedesk/internal/store"
)

// GetAdminLogsHandler handles GET /api/logs/admin-actions
func GetAdminLogsHandler(logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if err != nil || limit < 1 {
			limit = 100
		}

		logs, err := logStore.ListAdminLogs(c.Request.Context(), limit)
		if err != nil {
			slog.Error("Failed to list admin logs", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list admin logs"})
			return
		}

		if logs == nil {
			logs = []models.AdminLog{}
		}

		c.JSON(http.StatusOK, logs)
	}
}
