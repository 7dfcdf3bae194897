package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/garantbot/miniapp-backend/internal/dto"
	"github.com/garantbot/miniapp-backend/internal/http/handlers/common"
	"github.com/garantbot/miniapp-backend/internal/service"
)

// AccountHandler отдаёт состояние счёта пользователя.
type AccountHandler struct {
	accountService *service.AccountService
	tonAddress     string
}

// NewAccountHandler создаёт обработчик счетов.
func NewAccountHandler(accountService *service.AccountService, tonAddress string) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		tonAddress:     tonAddress,
	}
}

// GetBalance обрабатывает POST /api/user.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "не указан user_id")
		return
	}

	acct, err := h.accountService.GetAccount(req.UserID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondData(c, dto.BalanceData{
		Balance:        acct.Balance,
		Frozen:         acct.Frozen,
		Available:      acct.Available(),
		DepositAddress: h.tonAddress,
	})
}
