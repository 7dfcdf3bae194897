package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/garantbot/miniapp-backend/internal/dto"
	"github.com/garantbot/miniapp-backend/internal/http/handlers/common"
	"github.com/garantbot/miniapp-backend/internal/service"
)

// HistoryHandler отдаёт историю операций пользователя.
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler создаёт обработчик истории.
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// GetHistory обрабатывает POST /api/history.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "не указан user_id")
		return
	}

	entries := h.historyService.GetUserHistory(req.UserID)
	common.RespondData(c, dto.HistoryData{History: entries})
}
