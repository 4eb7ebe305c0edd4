package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medai-lite/internal/repository"
	"medai-lite/internal/service"
)

const maxAuditPageSize = 200

// AdminHandler mantiene dependencias para los endpoints administrativos.
type AdminHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
	audit       *service.AuditService
	startedAt   time.Time
}

func NewAdminHandler(logger *zap.Logger, assessments *service.AssessmentService, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{
		logger:      logger,
		assessments: assessments,
		audit:       audit,
		startedAt:   time.Now().UTC(),
	}
}

// SystemStatus maneja GET /api/admin/system/status.
func (h *AdminHandler) SystemStatus(c *gin.Context) {
	assessmentStats, err := h.assessments.Stats(c.Request.Context(), "")
	if err != nil {
		h.logger.Error("system status failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -30)
	auditStats, err := h.audit.StatsSince(c.Request.Context(), since)
	if err != nil {
		h.logger.Error("audit stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "operational",
		"uptime_seconds":   time.Since(h.startedAt).Seconds(),
		"assessment_stats": assessmentStats,
		"audit_stats":      auditStats,
	})
}

// AuditLogs maneja GET /api/admin/audit-logs.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit := 50
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	offset := 0
	if rawOffset := c.Query("offset"); rawOffset != "" {
		parsed, err := strconv.Atoi(rawOffset)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		offset = parsed
	}

	events, err := h.audit.List(c.Request.Context(), repository.AuditFilter{
		UserID:   c.Query("user_id"),
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
		Status:   c.Query("status"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.logger.Error("audit log query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
