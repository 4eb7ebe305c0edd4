package http

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medai-lite/internal/wearable"
)

// WatchHandler mantiene dependencias para los endpoints del reloj simulado.
type WatchHandler struct {
	logger *zap.Logger

	mu      sync.Mutex
	devices map[string]*wearable.Device
}

func NewWatchHandler(logger *zap.Logger) *WatchHandler {
	return &WatchHandler{
		logger:  logger,
		devices: make(map[string]*wearable.Device),
	}
}

func (h *WatchHandler) device(userID string) (*wearable.Device, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	dev, ok := h.devices[userID]
	return dev, ok
}

// Connect maneja POST /api/watch/connect.
func (h *WatchHandler) Connect(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	dev := wearable.NewDevice(req.UserID)
	info := dev.Connect()

	h.mu.Lock()
	h.devices[req.UserID] = dev
	h.mu.Unlock()

	h.logger.Info("watch connected", zap.String("user_id", req.UserID))
	c.JSON(http.StatusOK, gin.H{"connection": info})
}

// Disconnect maneja POST /api/watch/disconnect.
func (h *WatchHandler) Disconnect(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	h.mu.Lock()
	_, ok := h.devices[req.UserID]
	delete(h.devices, req.UserID)
	h.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no connected watch for user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "watch disconnected"})
}

// Vitals maneja GET /api/watch/vitals.
func (h *WatchHandler) Vitals(c *gin.Context) {
	dev, ok := h.connectedDevice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"vitals": dev.CurrentVitals()})
}

// Activity maneja GET /api/watch/activity.
func (h *WatchHandler) Activity(c *gin.Context) {
	dev, ok := h.connectedDevice(c)
	if !ok {
		return
	}
	days, ok := h.daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": dev.ActivitySummary(days)})
}

// Sleep maneja GET /api/watch/sleep.
func (h *WatchHandler) Sleep(c *gin.Context) {
	dev, ok := h.connectedDevice(c)
	if !ok {
		return
	}
	days, ok := h.daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"sleep": dev.SleepHistory(days)})
}

// Workouts maneja GET /api/watch/workouts.
func (h *WatchHandler) Workouts(c *gin.Context) {
	dev, ok := h.connectedDevice(c)
	if !ok {
		return
	}
	days, ok := h.daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"workouts": dev.Workouts(days)})
}

// Export maneja GET /api/watch/export.
func (h *WatchHandler) Export(c *gin.Context) {
	dev, ok := h.connectedDevice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dev.ExportData())
}

// SampleProfile maneja GET /api/watch/sample-profile.
func (h *WatchHandler) SampleProfile(c *gin.Context) {
	dev, ok := h.connectedDevice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": dev.SampleProfile()})
}

func (h *WatchHandler) connectedDevice(c *gin.Context) (*wearable.Device, bool) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return nil, false
	}
	dev, ok := h.device(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no connected watch for user"})
		return nil, false
	}
	return dev, true
}

func (h *WatchHandler) daysParam(c *gin.Context) (int, bool) {
	days := 7
	if rawDays := c.Query("days"); rawDays != "" {
		parsed, err := strconv.Atoi(rawDays)
		if err != nil || parsed < 1 || parsed > 30 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 30"})
			return 0, false
		}
		days = parsed
	}
	return days, true
}
