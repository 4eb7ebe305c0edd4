package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medai-lite/internal/agent"
	"medai-lite/internal/domain"
	"medai-lite/internal/service"
)

// AssessmentHandler mantiene dependencias para los endpoints de evaluacion.
type AssessmentHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
	aggregator  *agent.Aggregator
	limiter     service.RateLimiter
}

func NewAssessmentHandler(
	logger *zap.Logger,
	assessments *service.AssessmentService,
	aggregator *agent.Aggregator,
	limiter service.RateLimiter,
) *AssessmentHandler {
	return &AssessmentHandler{
		logger:      logger,
		assessments: assessments,
		aggregator:  aggregator,
		limiter:     limiter,
	}
}

type assessResponse struct {
	domain.AggregateResult
	AssessmentID string    `json:"assessment_id"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Assess maneja POST /api/aggregate.
func (h *AssessmentHandler) Assess(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.logger.Warn("invalid assess request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many assessment requests"})
		return
	}

	userID := ""
	if v, ok := raw["user_id"].(string); ok {
		userID = v
	}

	record, err := h.assessments.Assess(c.Request.Context(), userID, raw, c.ClientIP())
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "validation": verr})
			return
		}
		h.logger.Error("assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, assessResponse{
		AggregateResult: record.Result,
		AssessmentID:    record.ID,
		UserID:          record.UserID,
		CreatedAt:       record.CreatedAt,
	})
}

// Agents maneja GET /api/aggregate/agents.
func (h *AssessmentHandler) Agents(c *gin.Context) {
	infos := h.aggregator.Agents()
	c.JSON(http.StatusOK, gin.H{
		"agents":       infos,
		"total_agents": len(infos),
	})
}

// History maneja GET /api/history.
func (h *AssessmentHandler) History(c *gin.Context) {
	limit := 10
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	records, err := h.assessments.History(c.Request.Context(), c.Query("user_id"), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("history query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(records),
		"assessments": records,
	})
}

// GetAssessment maneja GET /api/history/:id.
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	record, err := h.assessments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
			return
		}
		h.logger.Error("get assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteAssessment maneja DELETE /api/history/:id.
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	actorID := ""
	if claims, ok := GetAuthClaims(c); ok {
		actorID = claims.UserID
	}
	err := h.assessments.Delete(c.Request.Context(), c.Param("id"), actorID, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
			return
		}
		h.logger.Error("delete assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assessment deleted"})
}

// Similar maneja GET /api/history/:id/similar.
func (h *AssessmentHandler) Similar(c *gin.Context) {
	k := 5
	if rawK := c.Query("k"); rawK != "" {
		parsed, err := strconv.Atoi(rawK)
		if err != nil || parsed < 1 || parsed > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be between 1 and 20"})
			return
		}
		k = parsed
	}

	records, err := h.assessments.FindSimilar(c.Request.Context(), c.Param("id"), k)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
			return
		}
		h.logger.Error("similar query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"similar": records,
	})
}

// Statistics maneja GET /api/statistics.
func (h *AssessmentHandler) Statistics(c *gin.Context) {
	stats, err := h.assessments.Stats(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.logger.Error("statistics query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
