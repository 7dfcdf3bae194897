package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/garantbot/miniapp-backend/internal/dto"
	"github.com/garantbot/miniapp-backend/internal/http/handlers/common"
	"github.com/garantbot/miniapp-backend/internal/service"
)

// FundingHandler принимает заявки на пополнение и вывод средств.
type FundingHandler struct {
	fundingService *service.FundingService
}

// NewFundingHandler создаёт обработчик заявок.
func NewFundingHandler(fundingService *service.FundingService) *FundingHandler {
	return &FundingHandler{fundingService: fundingService}
}

// CreateTopup обрабатывает POST /api/topup.
func (h *FundingHandler) CreateTopup(c *gin.Context) {
	var req dto.CreateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректные параметры пополнения")
		return
	}

	if err := h.fundingService.CreateTopup(req.UserID, req.Amount, req.TxHash); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondMessage(c, "заявка на пополнение принята")
}

// CreateWithdrawal обрабатывает POST /api/withdraw.
func (h *FundingHandler) CreateWithdrawal(c *gin.Context) {
	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректные параметры вывода")
		return
	}

	if err := h.fundingService.CreateWithdrawal(req.UserID, req.Amount, req.Address); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondMessage(c, "заявка на вывод принята")
}
