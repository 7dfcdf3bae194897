package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/garantbot/miniapp-backend/internal/http/handlers/common"
	"github.com/garantbot/miniapp-backend/internal/models"
	"github.com/garantbot/miniapp-backend/internal/service"
)

// SyncHandler принимает полный снимок состояния от основного бота.
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler создаёт обработчик синхронизации.
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// SyncData обрабатывает POST /api/sync-data.
func (h *SyncHandler) SyncData(c *gin.Context) {
	var doc models.SnapshotDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		common.RespondBadRequest(c, "некорректный формат данных")
		return
	}

	result, err := h.syncService.ReplaceState(&doc)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondData(c, result)
}
